package controller

import (
	"time"

	"tutor_backend/internal/model"
	"tutor_backend/internal/service"
	"tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningEventController struct {
	EventService *service.LearningEventService
}

func NewLearningEventController(eventService *service.LearningEventService) *LearningEventController {
	return &LearningEventController{EventService: eventService}
}

type CreateEventRequest struct {
	Type      model.LearningEventType `json:"type" example:"note"`
	Subject   string                  `json:"subject,omitempty" example:"physics"`
	Content   string                  `json:"content" example:"F=ma"`
	Timestamp *time.Time              `json:"timestamp,omitempty"`
}

// @Summary 记录学习事件
// @Description 记录一条提问、笔记或语音交互，timestamp 缺省为服务端接收时间
// @Tags 学习事件
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "学习事件"
// @Success 201 {object} util.Response{data=model.LearningEvent}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/events [post]
func (c *LearningEventController) CreateEvent(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	event, err := c.EventService.RecordEvent(ctx.Request.Context(), user.UserID(), service.RecordEventInput{
		Type:      req.Type,
		Subject:   req.Subject,
		Content:   req.Content,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, event)
}

// @Summary 查询学习事件
// @Description 按时间倒序返回当前用户的学习事件，条件之间为 AND
// @Tags 学习事件
// @Produce json
// @Security BearerAuth
// @Param type query string false "事件类型" Enums(question, note, voice_interaction)
// @Param subject query string false "学科"
// @Param fromDate query string false "起始时间 (RFC3339 或 YYYY-MM-DD)"
// @Param toDate query string false "截止时间 (RFC3339 或 YYYY-MM-DD)"
// @Param limit query int false "条数上限"
// @Param offset query int false "跳过条数"
// @Success 200 {object} util.Response{data=[]model.LearningEvent}
// @Router /api/events [get]
func (c *LearningEventController) ListEvents(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	filter, err := parseEventFilter(ctx)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	events, err := c.EventService.ListEvents(ctx.Request.Context(), user.UserID(), filter)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, events)
}

func parseEventFilter(ctx *gin.Context) (model.LearningEventFilter, error) {
	filter := model.LearningEventFilter{
		Type:    model.LearningEventType(ctx.Query("type")),
		Subject: ctx.Query("subject"),
	}

	var err error
	if filter.FromDate, err = util.ParseOptionalTime("fromDate", ctx.Query("fromDate")); err != nil {
		return filter, err
	}
	if filter.ToDate, err = util.ParseOptionalTime("toDate", ctx.Query("toDate")); err != nil {
		return filter, err
	}
	if filter.Limit, err = util.ParseOptionalInt("limit", ctx.Query("limit")); err != nil {
		return filter, err
	}
	if filter.Offset, err = util.ParseOptionalInt("offset", ctx.Query("offset")); err != nil {
		return filter, err
	}
	return filter, nil
}

// @Summary 学习事件统计
// @Description 按 (type, subject) 统计事件数与首末时间
// @Tags 学习事件
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.LearningEventStats}
// @Router /api/events/stats [get]
func (c *LearningEventController) GetStats(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.EventService.Stats(ctx.Request.Context(), user.UserID())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// @Summary 删除学习事件
// @Description 学习事件不可删除，始终返回 501
// @Tags 学习事件
// @Produce json
// @Security BearerAuth
// @Param id query string true "事件ID"
// @Failure 501 {object} util.Response
// @Router /api/events [delete]
func (c *LearningEventController) DeleteEvent(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	err := c.EventService.DeleteEvent(ctx.Request.Context(), user.UserID(), ctx.Query("id"))
	util.HandleError(ctx, err)
}

// @Summary 记录学习事件 (旧接口)
// @Description 兼容旧客户端，忽略请求中的 timestamp，以接收时间记录
// @Tags 学习事件
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "学习事件"
// @Success 200 {object} util.Response
// @Router /api/learning/analytics [post]
func (c *LearningEventController) LogLegacyEvent(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	_, err := c.EventService.RecordEvent(ctx.Request.Context(), user.UserID(), service.RecordEventInput{
		Type:    req.Type,
		Subject: req.Subject,
		Content: req.Content,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"success": true})
}
