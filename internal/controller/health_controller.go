package controller

import (
	"context"
	"net/http"
	"time"

	"tutor_backend/internal/repository"
	"tutor_backend/internal/service"
	"tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Store *repository.Store
	Hub   *service.ChatHub
}

func NewHealthController(store *repository.Store, hub *service.ChatHub) *HealthController {
	return &HealthController{Store: store, Hub: hub}
}

// @Summary 健康检查
// @Description 检查服务状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.Store.Ping(pingCtx); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	data := gin.H{
		"status": "ok",
		"components": gin.H{
			"database": "up",
		},
	}
	if c.Hub != nil {
		data["chatClients"] = c.Hub.ClientCount()
	}
	util.Success(ctx, data)
}
