package controller

import (
	"tutor_backend/internal/service"
	"tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// @Summary 个性化辅导分析
// @Description 基于最近的学习事件计算学习模式、行为分析、推荐与辅导提示
// @Tags 学习分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.PersonalizedTutoring}
// @Failure 404 {object} util.Response "No learning data available"
// @Router /api/analytics [get]
// @Router /api/learning/analytics [get]
func (c *AnalyticsController) GetTutoring(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	tutoring, err := c.AnalyticsService.GetPersonalizedTutoring(ctx.Request.Context(), user.UserID(), nil)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, tutoring)
}
