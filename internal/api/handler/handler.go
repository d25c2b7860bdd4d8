package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/anontalk/internal/api/middleware"
	"github.com/d60-Lab/anontalk/internal/service"
	"github.com/d60-Lab/anontalk/pkg/response"
)

type Handler struct {
	talkService    service.TalkService
	messageService service.MessageService
}

func NewHandler(talkService service.TalkService, messageService service.MessageService) *Handler {
	return &Handler{talkService: talkService, messageService: messageService}
}

// Health 存活检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} response.Response
// @Router /healthz [get]
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}

// fail 将服务层错误映射为 HTTP 响应
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrDetection):
		response.BadGateway(c, err)
	default:
		response.InternalError(c, err)
	}
}

func humanID(c *gin.Context) uint64 { return c.GetUint64(middleware.HumanIDKey) }

func talkIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid talk id")
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context, defaultSize int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultSize)))
	return page, pageSize
}
