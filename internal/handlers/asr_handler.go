package handlers

import (
	"net/http"

	"visual_qa_server/internal/models"
	"visual_qa_server/internal/services"

	"github.com/gin-gonic/gin"
)

// ASRHandler 语音识别处理器
type ASRHandler struct {
	service *services.ASRService
}

// NewASRHandler 创建新的 ASR 处理器实例
func NewASRHandler(service *services.ASRService) *ASRHandler {
	return &ASRHandler{service: service}
}

// Handle 处理 POST /asr，表单字段file为WAV音频
func (h *ASRHandler) Handle(c *gin.Context) {
	f, err := formFile(c, "file")
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()

	text, err := h.service.Transcribe(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ASRResponse{Transcription: text})
}

// RegisterRoutes 注册路由
func (h *ASRHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/asr", h.Handle)
}
