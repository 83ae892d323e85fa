package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salonbook/booking-api/internal/handler"
	"github.com/salonbook/booking-api/internal/middleware"
	"github.com/salonbook/booking-api/internal/service/notification"
	apperrors "github.com/salonbook/booking-api/pkg/errors"
)

type Handler struct {
	service *notification.Service
}

func NewHandler(service *notification.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/notifications/unread-count", h.UnreadCount)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		handler.Error(c, apperrors.Forbidden("missing caller identity"))
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), principal.UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"unread_count": count}))
}
