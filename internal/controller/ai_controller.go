package controller

import (
	"strings"

	"tutor_backend/internal/service"
	"tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AIController struct {
	AIService *service.AIService
}

func NewAIController(aiService *service.AIService) *AIController {
	return &AIController{AIService: aiService}
}

type EnhanceNotesRequest struct {
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type EnhanceNotesResponse struct {
	Result  string `json:"result"`
	Success bool   `json:"success"`
}

// @Summary AI 润色笔记
// @Description 按学科标签润色学生笔记，返回 markdown
// @Tags AI
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EnhanceNotesRequest true "笔记与标签"
// @Success 200 {object} util.Response{data=EnhanceNotesResponse}
// @Failure 400 {object} util.Response
// @Router /api/ai/enhance-notes [post]
func (c *AIController) EnhanceNotes(ctx *gin.Context) {
	if util.GetUserFromContext(ctx) == nil {
		util.Unauthorized(ctx)
		return
	}

	var req EnhanceNotesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" || len(req.Tags) == 0 {
		util.BadRequest(ctx, "Invalid request. Content and tags are required.")
		return
	}

	result, err := c.AIService.EnhanceNotes(ctx.Request.Context(), req.Content, req.Tags)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, EnhanceNotesResponse{Result: result, Success: true})
}
