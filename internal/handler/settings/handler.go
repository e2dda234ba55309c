package settings

import (
	"github.com/gin-gonic/gin"

	"github.com/zerofoodhero/api/internal/middleware"
	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/service/settings"
	"github.com/zerofoodhero/api/pkg/httputil"
)

type Handler struct {
	svc settings.Service
}

func NewHandler(svc settings.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	s := r.Group("/settings")
	{
		s.GET("", h.Get)
		s.PUT("", h.Update)
		s.GET("/location", h.Location)
		s.PUT("/location", h.SaveLocation)
	}
}

func (h *Handler) Get(c *gin.Context) {
	prefs, err := h.svc.Get(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, prefs)
}

func (h *Handler) Update(c *gin.Context) {
	var req model.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}
	prefs, err := h.svc.Update(c.Request.Context(), middleware.CurrentUser(c).ID, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, prefs)
}

// Location returns the last saved location for the caller's active role.
func (h *Handler) Location(c *gin.Context) {
	user := middleware.CurrentUser(c)
	loc, err := h.svc.Location(c.Request.Context(), user.ID, user.Role)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, loc)
}

func (h *Handler) SaveLocation(c *gin.Context) {
	var req model.Location
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}
	user := middleware.CurrentUser(c)
	if err := h.svc.SaveLocation(c.Request.Context(), user.ID, user.Role, &req); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, req)
}
