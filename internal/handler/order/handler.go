package order

import (
	"github.com/gin-gonic/gin"

	"github.com/zerofoodhero/api/internal/middleware"
	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/service/order"
	"github.com/zerofoodhero/api/pkg/httputil"
)

type Handler struct {
	svc  order.Service
	auth *middleware.AuthMiddleware
}

func NewHandler(svc order.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{svc: svc, auth: auth}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.POST("", h.auth.RequireRole(model.RoleNGO), h.Create)
		orders.GET("", h.auth.RequireRole(model.RoleNGO), h.List)
		orders.GET("/:id", h.Get)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	o, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.Created(c, o)
}

// List serves an NGO its own orders; admins see every order.
func (h *Handler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var (
		orders []*model.Order
		err    error
	)
	if user.Role == model.RoleAdmin {
		orders, err = h.svc.List(c.Request.Context())
	} else {
		orders, err = h.svc.ByNGO(c.Request.Context(), user.ID)
	}
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, orders)
}

func (h *Handler) Get(c *gin.Context) {
	o, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, o)
}
