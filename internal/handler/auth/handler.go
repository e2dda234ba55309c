package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/zerofoodhero/api/internal/middleware"
	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/service/user"
	"github.com/zerofoodhero/api/pkg/httputil"
)

type Handler struct {
	svc  user.Service
	auth *middleware.AuthMiddleware
}

func NewHandler(svc user.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{svc: svc, auth: auth}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
	}
}

func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/me", h.Me)
	r.POST("/me/switch-role", h.SwitchRole)

	users := r.Group("/users", h.auth.RequireRole())
	{
		users.GET("", h.ListUsers)
		users.DELETE("/:id", h.DeleteUser)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	u, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.Created(c, u)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	tokens, u, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.OK(c, gin.H{"tokens": tokens, "user": u})
}

func (h *Handler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	tokens, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.OK(c, tokens)
}

func (h *Handler) Me(c *gin.Context) {
	httputil.OK(c, middleware.CurrentUser(c))
}

func (h *Handler) SwitchRole(c *gin.Context) {
	var req model.SwitchRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	u, err := h.svc.SwitchRole(c.Request.Context(), middleware.CurrentUser(c).ID, req.Role)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.OK(c, u)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.OK(c, users)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.Message(c, "user deleted")
}
