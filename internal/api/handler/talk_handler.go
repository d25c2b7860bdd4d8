package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/anontalk/internal/api/dto"
	"github.com/d60-Lab/anontalk/pkg/response"
)

// Ask 匿名提问
// @Summary 提问（语言自动检测）
// @Tags 对话
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AskRequest true "问题内容"
// @Success 201 {object} response.Response{data=dto.AskResponse}
// @Failure 400 {object} response.Response
// @Failure 429 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /api/v1/questions [post]
func (h *Handler) Ask(c *gin.Context) {
	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	q, err := h.talkService.Ask(c.Request.Context(), humanID(c), req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, dto.AskResponse{ID: q.ID, Locale: q.Locale})
}

// Next 下一个对话
// @Summary 获取下一个对话（未读优先，否则分配新问题）
// @Tags 对话
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.TalkList}
// @Failure 404 {object} response.Response
// @Router /api/v1/talks/next [get]
func (h *Handler) Next(c *gin.Context) {
	viewer := humanID(c)
	talks, err := h.talkService.Next(c.Request.Context(), viewer)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, dto.TalkList{List: dto.NewTalks(talks, viewer)})
}

// History 参与过的对话
// @Summary 对话历史
// @Tags 对话
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/talks [get]
func (h *Handler) History(c *gin.Context) {
	viewer := humanID(c)
	page, pageSize := pageParams(c, 20)
	talks, err := h.talkService.History(c.Request.Context(), viewer, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": dto.NewTalks(talks, viewer)})
}

// Talk 单个对话
// @Summary 查询对话
// @Tags 对话
// @Produce json
// @Security BearerAuth
// @Param id path int true "对话ID"
// @Success 200 {object} response.Response{data=dto.Talk}
// @Failure 404 {object} response.Response
// @Router /api/v1/talks/{id} [get]
func (h *Handler) Talk(c *gin.Context) {
	id, ok := talkIDParam(c)
	if !ok {
		return
	}
	viewer := humanID(c)
	t, _, err := h.talkService.Talk(c.Request.Context(), viewer, id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, dto.NewTalk(t, viewer))
}

// ListMessages 对话消息
// @Summary 列出对话消息（发给自己的消息随后标记已读）
// @Tags 对话
// @Produce json
// @Security BearerAuth
// @Param id path int true "对话ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(50)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 404 {object} response.Response
// @Router /api/v1/talks/{id}/messages [get]
func (h *Handler) ListMessages(c *gin.Context) {
	id, ok := talkIDParam(c)
	if !ok {
		return
	}
	viewer := humanID(c)
	page, pageSize := pageParams(c, 50)
	msgs, err := h.messageService.List(c.Request.Context(), viewer, id, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": dto.NewMessages(msgs, viewer)})
}

// PostMessage 发言
// @Summary 在对话中发言
// @Tags 对话
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "对话ID"
// @Param request body dto.PostMessageRequest true "发言内容"
// @Success 201 {object} response.Response{data=dto.Message}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/talks/{id}/messages [post]
func (h *Handler) PostMessage(c *gin.Context) {
	id, ok := talkIDParam(c)
	if !ok {
		return
	}
	var req dto.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	viewer := humanID(c)
	m, err := h.messageService.Post(c.Request.Context(), viewer, id, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, dto.NewMessage(m, viewer))
}
