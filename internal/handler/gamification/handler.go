package gamification

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zerofoodhero/api/internal/middleware"
	"github.com/zerofoodhero/api/internal/service/gamification"
	"github.com/zerofoodhero/api/pkg/httputil"
)

const defaultLeaderboardSize = 10

type Handler struct {
	svc  gamification.Service
	auth *middleware.AuthMiddleware
}

func NewHandler(svc gamification.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{svc: svc, auth: auth}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/gamification")
	{
		g.GET("/stats", h.Stats)
		g.GET("/leaderboard", h.Leaderboard)
		g.POST("/share", h.Share)
		g.POST("/reset", h.auth.RequireRole(), h.Reset)
	}
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, stats)
}

func (h *Handler) Leaderboard(c *gin.Context) {
	limit := defaultLeaderboardSize
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.svc.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, entries)
}

// Share awards the social-share points
func (h *Handler) Share(c *gin.Context) {
	stats, err := h.svc.AddPoints(c.Request.Context(), middleware.CurrentUser(c).ID,
		gamification.PointsSocialShare, "social share", gamification.Counters{})
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, stats)
}

func (h *Handler) Reset(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		httputil.BadRequest(c, "user_id is required")
		return
	}

	if err := h.svc.Reset(c.Request.Context(), userID); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Message(c, "stats reset")
}
