package donation

import (
	"github.com/gin-gonic/gin"

	"github.com/zerofoodhero/api/internal/middleware"
	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/service/donation"
	"github.com/zerofoodhero/api/pkg/httputil"
)

type Handler struct {
	svc  donation.Service
	auth *middleware.AuthMiddleware
}

func NewHandler(svc donation.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{svc: svc, auth: auth}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	donations := r.Group("/donations")
	{
		donations.GET("", h.List)
		donations.GET("/available", h.Available)
		donations.GET("/nearby", h.Nearby)
		donations.GET("/mine", h.Mine)
		donations.GET("/:id", h.Get)
		donations.POST("/resolve", h.Resolve)
		donations.POST("/classify", h.Classify)

		donations.POST("", h.auth.RequireRole(model.RoleDonor), h.Create)
		donations.POST("/:id/cancel", h.auth.RequireRole(model.RoleDonor), h.Cancel)

		donations.POST("/:id/order", h.auth.RequireRole(model.RoleNGO), h.Order)

		donations.POST("/:id/claim", h.auth.RequireRole(model.RoleVolunteer), h.Claim)
		donations.POST("/:id/transit", h.auth.RequireRole(model.RoleVolunteer), h.MarkInTransit)
		donations.POST("/:id/deliver", h.auth.RequireRole(model.RoleVolunteer), h.MarkDelivered)

		donations.PUT("/:id/status", h.auth.RequireRole(), h.ForceStatus)
		donations.DELETE("/:id", h.auth.RequireRole(), h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	d, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.Created(c, d)
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, items)
}

func (h *Handler) Available(c *gin.Context) {
	items, err := h.svc.Available(c.Request.Context())
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, items)
}

func (h *Handler) Nearby(c *gin.Context) {
	var q model.NearbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	items, err := h.svc.Nearby(c.Request.Context(), &q)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, items)
}

// Mine lists the donations tied to the caller in their active role
func (h *Handler) Mine(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var (
		items interface{}
		err   error
	)
	switch user.Role {
	case model.RoleVolunteer:
		items, err = h.svc.ByVolunteer(c.Request.Context(), user.ID)
	case model.RoleNGO:
		items, err = h.svc.ByNGO(c.Request.Context(), user.ID)
	default:
		items, err = h.svc.ByDonor(c.Request.Context(), user.ID)
	}
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, items)
}

func (h *Handler) Get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, d)
}

func (h *Handler) Order(c *gin.Context) {
	d, err := h.svc.Order(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, d)
}

func (h *Handler) Claim(c *gin.Context) {
	d, err := h.svc.Claim(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, d)
}

func (h *Handler) MarkInTransit(c *gin.Context) {
	d, err := h.svc.MarkInTransit(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, d)
}

func (h *Handler) MarkDelivered(c *gin.Context) {
	d, err := h.svc.MarkDelivered(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, d)
}

func (h *Handler) Cancel(c *gin.Context) {
	d, err := h.svc.Cancel(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, d)
}

func (h *Handler) ForceStatus(c *gin.Context) {
	var req struct {
		Status model.DonationStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	d, err := h.svc.ForceStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, d)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Message(c, "donation deleted")
}

// Resolve maps a scanned QR payload back to its donation
func (h *Handler) Resolve(c *gin.Context) {
	var req struct {
		Payload string `json:"payload" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	d, err := h.svc.Resolve(c.Request.Context(), req.Payload)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, d)
}

// Classify returns the mocked category guess for a food description
func (h *Handler) Classify(c *gin.Context) {
	var req struct {
		FoodType string `json:"food_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	category, confidence := donation.Classify(req.FoodType)
	httputil.OK(c, gin.H{"category": category, "confidence": confidence})
}
