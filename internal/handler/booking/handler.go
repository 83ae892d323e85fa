package booking

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/salonbook/booking-api/internal/handler"
	"github.com/salonbook/booking-api/internal/middleware"
	"github.com/salonbook/booking-api/internal/model"
	"github.com/salonbook/booking-api/internal/service/booking"
	apperrors "github.com/salonbook/booking-api/pkg/errors"
	"github.com/salonbook/booking-api/pkg/metrics"
)

type Handler struct {
	service *booking.Service
	metrics *metrics.Metrics
}

func NewHandler(service *booking.Service, metrics *metrics.Metrics) *Handler {
	return &Handler{service: service, metrics: metrics}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/bookings", h.CreateBooking)
	r.GET("/bookings", h.ListBookings)
	r.GET("/bookings/:id", h.GetBooking)
	r.PATCH("/bookings/:id/status", h.UpdateBookingStatus)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		handler.Error(c, apperrors.Forbidden("missing caller identity"))
		return
	}
	if principal.Role != model.RoleCustomer {
		handler.Error(c, apperrors.Forbidden("only customers may create bookings"))
		return
	}

	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	input, err := parseCreateRequest(&req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	view, err := h.service.CreateBooking(c.Request.Context(), principal.UserID, input)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindConflict) {
			h.metrics.BookingConflicts.Inc()
		}
		handler.Error(c, err)
		return
	}

	h.metrics.BookingsCreated.Inc()
	h.metrics.SlotsReserved.Add(float64(len(view.Slots)))
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(view))
}

func (h *Handler) GetBooking(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		handler.Error(c, apperrors.Forbidden("missing caller identity"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.Validation("invalid booking ID"))
		return
	}

	view, err := h.service.GetBooking(c.Request.Context(), principal, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(view))
}

func (h *Handler) ListBookings(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		handler.Error(c, apperrors.Forbidden("missing caller identity"))
		return
	}

	filters, err := parseFilters(c)
	if err != nil {
		handler.Error(c, err)
		return
	}

	bookings, total, err := h.service.ListBookings(c.Request.Context(), principal, filters)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"bookings": bookings,
		"total":    total,
		"page":     filters.Pagination.Page,
		"limit":    filters.Pagination.Limit,
	}))
}

func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		handler.Error(c, apperrors.Forbidden("missing caller identity"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.Validation("invalid booking ID"))
		return
	}

	var req model.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	view, err := h.service.UpdateStatus(c.Request.Context(), principal, id, req.Status)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(view))
}

func parseCreateRequest(req *model.CreateBookingRequest) (*model.CreateBookingInput, error) {
	salonID, err := uuid.Parse(req.SalonID)
	if err != nil {
		return nil, apperrors.Validation("invalid salon ID")
	}
	stylistID, err := uuid.Parse(req.StylistID)
	if err != nil {
		return nil, apperrors.Validation("invalid stylist ID")
	}
	scheduleID, err := uuid.Parse(req.WorkScheduleID)
	if err != nil {
		return nil, apperrors.Validation("invalid work schedule ID")
	}

	input := &model.CreateBookingInput{
		SalonID:        salonID,
		StylistID:      stylistID,
		WorkScheduleID: scheduleID,
	}
	for _, raw := range req.ServiceIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperrors.Validation("invalid service ID")
		}
		input.ServiceIDs = append(input.ServiceIDs, id)
	}
	for _, raw := range req.TimeSlotIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperrors.Validation("invalid time slot ID")
		}
		input.TimeSlotIDs = append(input.TimeSlotIDs, id)
	}
	return input, nil
}

func parseFilters(c *gin.Context) (*model.BookingFilters, error) {
	filters := &model.BookingFilters{}

	if status := c.Query("status"); status != "" {
		filters.Status = model.BookingStatus(status)
	}
	if date := c.Query("from"); date != "" {
		from, err := time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, apperrors.Validation("invalid from date, expected RFC3339")
		}
		filters.FromDate = from
	}
	if date := c.Query("to"); date != "" {
		to, err := time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, apperrors.Validation("invalid to date, expected RFC3339")
		}
		filters.ToDate = to
	}

	var pagination struct {
		Page  int `form:"page"`
		Limit int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&pagination); err != nil {
		return nil, apperrors.Validation("invalid pagination parameters")
	}
	filters.Pagination = model.Pagination{Page: pagination.Page, Limit: pagination.Limit}

	return filters, nil
}
