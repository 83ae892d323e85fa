package review

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/salonbook/booking-api/internal/handler"
	"github.com/salonbook/booking-api/internal/middleware"
	"github.com/salonbook/booking-api/internal/model"
	"github.com/salonbook/booking-api/internal/service/review"
	apperrors "github.com/salonbook/booking-api/pkg/errors"
)

type Handler struct {
	service *review.Service
}

func NewHandler(service *review.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/bookings/:id/reviews", h.SubmitReview)
}

func (h *Handler) SubmitReview(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		handler.Error(c, apperrors.Forbidden("missing caller identity"))
		return
	}
	if principal.Role != model.RoleCustomer {
		handler.Error(c, apperrors.Forbidden("only customers may review bookings"))
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.Validation("invalid booking ID"))
		return
	}

	var req model.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	submitted, err := h.service.Submit(c.Request.Context(), principal.UserID, bookingID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(submitted))
}
