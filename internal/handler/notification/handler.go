package notification

import (
	"github.com/gin-gonic/gin"

	"github.com/zerofoodhero/api/internal/middleware"
	"github.com/zerofoodhero/api/internal/service/notification"
	"github.com/zerofoodhero/api/pkg/httputil"
)

type Handler struct {
	svc notification.Service
}

func NewHandler(svc notification.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	n := r.Group("/notifications")
	{
		n.GET("", h.List)
		n.POST("/read-all", h.MarkAllRead)
		n.POST("/:id/read", h.MarkRead)
		n.DELETE("/:id", h.Remove)
		n.DELETE("", h.Clear)
	}
}

func (h *Handler) List(c *gin.Context) {
	feed, err := h.svc.List(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, feed)
}

func (h *Handler) MarkRead(c *gin.Context) {
	if err := h.svc.MarkRead(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("id")); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Message(c, "marked read")
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	if err := h.svc.MarkAllRead(c.Request.Context(), middleware.CurrentUser(c).ID); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Message(c, "all marked read")
}

func (h *Handler) Remove(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("id")); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Message(c, "notification removed")
}

func (h *Handler) Clear(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context(), middleware.CurrentUser(c).ID); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Message(c, "notifications cleared")
}
