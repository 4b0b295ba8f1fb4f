package handlers

import (
	"net/http"

	"visual_qa_server/internal/models"
	"visual_qa_server/internal/services"

	"github.com/gin-gonic/gin"
)

// MultimodalHandler 图像描述/视觉问答处理器
type MultimodalHandler struct {
	service *services.MultimodalService
}

// NewMultimodalHandler 创建多模态处理器
func NewMultimodalHandler(service *services.MultimodalService) *MultimodalHandler {
	return &MultimodalHandler{service: service}
}

// Handle 处理 POST /multimodal，表单字段file为图片，prompt可选
func (h *MultimodalHandler) Handle(c *gin.Context) {
	image, err := readFormFile(c, "file")
	if err != nil {
		writeError(c, err)
		return
	}

	text, err := h.service.Ask(c.Request.Context(), image, c.PostForm("prompt"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MultimodalResponse{Response: text})
}

// RegisterRoutes 注册路由
func (h *MultimodalHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/multimodal", h.Handle)
}
