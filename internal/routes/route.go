package routes

import (
	"visual_qa_server/internal/config"
	"visual_qa_server/internal/handlers"
	"visual_qa_server/internal/registry"
	"visual_qa_server/internal/services"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册所有路由，处理器共享同一个只读注册表
func RegisterRoutes(r *gin.Engine, reg *registry.Registry, cfg *config.Config) {
	r.GET("/hello", handlers.Hello)
	r.GET("/health", handlers.Health(reg.Device.String(), reg.ModelNames()))

	// 注册多模态路由
	multimodalService := services.NewMultimodalService(reg.Multimodal, cfg.Multimodal.DefaultPrompt)
	handlers.NewMultimodalHandler(multimodalService).RegisterRoutes(r)

	// 注册ASR路由
	asrService := services.NewASRService(reg.ASR, cfg.ASR.SampleRate)
	handlers.NewASRHandler(asrService).RegisterRoutes(r)

	// 注册TTS路由
	ttsService := services.NewTTSService(reg.TTS, cfg.TTS.SampleRate, cfg.Server.OutputDir)
	handlers.NewTTSHandler(ttsService).RegisterRoutes(r)
}
