package handlers

import (
	"fmt"
	"net/http"
	"os"

	"visual_qa_server/internal/services"

	"github.com/gin-gonic/gin"
)

// TTSHandler 语音合成处理器
type TTSHandler struct {
	service *services.TTSService
}

// NewTTSHandler 创建语音合成处理器
func NewTTSHandler(service *services.TTSService) *TTSHandler {
	return &TTSHandler{service: service}
}

// Handle 处理 GET /tts/:text，返回WAV音频
func (h *TTSHandler) Handle(c *gin.Context) {
	artifact, err := h.service.Synthesize(c.Request.Context(), c.Param("text"))
	if err != nil {
		writeError(c, err)
		return
	}
	defer artifact.Remove()

	f, err := os.Open(artifact.Path)
	if err != nil {
		writeError(c, fmt.Errorf("打开合成音频失败: %w", err))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeError(c, fmt.Errorf("读取合成音频信息失败: %w", err))
		return
	}
	c.DataFromReader(http.StatusOK, info.Size(), "audio/wav", f, nil)
}

// RegisterRoutes 注册路由
func (h *TTSHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/tts/:text", h.Handle)
}
