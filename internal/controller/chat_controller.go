package controller

import (
	"tutor_backend/internal/service"
	"tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	ChatService *service.ChatService
	Hub         *service.ChatHub
}

func NewChatController(chatService *service.ChatService, hub *service.ChatHub) *ChatController {
	return &ChatController{ChatService: chatService, Hub: hub}
}

type PostMessageRequest struct {
	Content   string `json:"content" example:"Anyone studying thermodynamics?"`
	Type      string `json:"type,omitempty" example:"text"`
	Username  string `json:"username,omitempty"`
	UserImage string `json:"userImage,omitempty"`
}

// @Summary 发送聊天室消息
// @Description 保存消息并广播给所有在线连接
// @Tags 聊天室
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body PostMessageRequest true "消息"
// @Success 200 {object} util.Response{data=model.ChatMessageView}
// @Failure 400 {object} util.Response
// @Router /api/chat/messages [post]
func (c *ChatController) PostMessage(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req PostMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	msg, err := c.ChatService.PostMessage(ctx.Request.Context(), user.UserID(), service.PostMessageInput{
		Content:   req.Content,
		Type:      req.Type,
		Username:  req.Username,
		UserImage: req.UserImage,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, msg)
}

// @Summary 获取聊天室消息
// @Description 最新 100 条消息，按时间正序
// @Tags 聊天室
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.ChatMessageView}
// @Router /api/chat/messages [get]
func (c *ChatController) GetMessages(ctx *gin.Context) {
	if util.GetUserFromContext(ctx) == nil {
		util.Unauthorized(ctx)
		return
	}

	messages, err := c.ChatService.RecentMessages(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, messages)
}

// @Summary 订阅聊天室
// @Description 升级为 websocket，推送 {event, data} 格式的新消息
// @Tags 聊天室
// @Security BearerAuth
// @Param token query string false "会话令牌"
// @Router /api/chat/ws [get]
func (c *ChatController) HandleWS(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	service.ServeWs(c.Hub, ctx.Writer, ctx.Request, user.UserID())
}
