// Package registry 在启动时加载三个模型绑定，进程生命周期内只读
package registry

import (
	"context"
	"fmt"
	"sync"

	"visual_qa_server/internal/clients/ollama"
	"visual_qa_server/internal/clients/synth"
	"visual_qa_server/internal/clients/whisper"
	"visual_qa_server/internal/config"
	"visual_qa_server/internal/device"
	"visual_qa_server/internal/models"
	"visual_qa_server/internal/types"

	"github.com/sirupsen/logrus"
)

// Registry 模型注册表，构建后不再修改
type Registry struct {
	Device     device.Device
	Multimodal models.Captioner
	ASR        models.Transcriber
	TTS        models.Synthesizer

	names map[types.Task]string
}

// ModelNames 返回任务到模型名称的映射，未加载的任务不出现
func (r *Registry) ModelNames() map[string]string {
	out := make(map[string]string, len(r.names))
	for _, task := range types.Tasks {
		if name, ok := r.names[task]; ok {
			out[string(task)] = name
		}
	}
	return out
}

// Build 构建所有模型绑定，并按配置检查后端是否就绪
func Build(ctx context.Context, cfg *config.Config, dev device.Device) (*Registry, error) {
	log := logrus.WithField("device", dev)

	// 加载多模态模型
	log.WithField("model", cfg.Multimodal.Model).Info("加载多模态模型")
	ollamaClient := ollama.NewClient(ollama.Config{
		Host:  cfg.Multimodal.Host,
		Model: cfg.Multimodal.Model,
	})
	if cfg.Multimodal.VerifyOnStart {
		info, err := ollamaClient.Show(ctx)
		if err != nil {
			return nil, fmt.Errorf("检查多模态模型失败: %w", err)
		}
		log.WithFields(logrus.Fields{
			"family": info.Details.Family,
			"size":   info.Details.ParameterSize,
		}).Info("多模态模型就绪")
	}

	// 加载ASR模型
	log.WithField("model", cfg.ASR.Model).Info("加载ASR模型")
	whisperClient := whisper.NewClient(whisper.Config{
		ServerURL:        cfg.ASR.ServerURL,
		Model:            cfg.ASR.Model,
		Device:           dev,
		SampleRate:       cfg.ASR.SampleRate,
		MaxNewTokens:     cfg.ASR.MaxNewTokens,
		FrameSize:        cfg.ASR.FrameSize,
		HandshakeTimeout: cfg.ASR.HandshakeTimeout,
	})
	if cfg.ASR.VerifyOnStart {
		if err := whisperClient.Ping(ctx); err != nil {
			return nil, fmt.Errorf("检查ASR服务失败: %w", err)
		}
	}

	// 加载TTS模型和说话人向量
	log.WithFields(logrus.Fields{
		"model":   cfg.TTS.Model,
		"vocoder": cfg.TTS.Vocoder,
	}).Info("加载TTS模型")
	speaker, err := LoadSpeakerEmbedding(cfg.TTS.SpeakerEmbeddingFile)
	if err != nil {
		return nil, err
	}
	if speaker == nil {
		log.Warn("未配置说话人向量，使用合成服务默认说话人")
	}
	synthClient := synth.NewClient(synth.Config{
		Host:       cfg.TTS.Host,
		Model:      cfg.TTS.Model,
		Vocoder:    cfg.TTS.Vocoder,
		Device:     dev.String(),
		SampleRate: cfg.TTS.SampleRate,
	})
	if cfg.TTS.VerifyOnStart {
		if err := synthClient.Health(ctx); err != nil {
			return nil, fmt.Errorf("检查TTS服务失败: %w", err)
		}
	}

	return &Registry{
		Device: dev,
		Multimodal: &MultimodalBinding{
			client:       ollamaClient,
			device:       dev,
			maxNewTokens: cfg.Multimodal.MaxNewTokens,
			temperature:  cfg.Multimodal.Temperature,
		},
		ASR: &ASRBinding{client: whisperClient},
		TTS: &TTSBinding{client: synthClient, speaker: speaker},
		names: map[types.Task]string{
			types.TaskMultimodal: ollamaClient.Model(),
			types.TaskASR:        whisperClient.Model(),
			types.TaskTTS:        synthClient.Model(),
		},
	}, nil
}

// BuildFunc 构建注册表的函数
type BuildFunc func(ctx context.Context) (*Registry, error)

// Loader 保证注册表只构建一次
type Loader struct {
	once  sync.Once
	build BuildFunc
	reg   *Registry
	err   error
}

// NewLoader 创建注册表加载器
func NewLoader(build BuildFunc) *Loader {
	return &Loader{build: build}
}

// Load 首次调用时构建注册表，之后返回同一结果
func (l *Loader) Load(ctx context.Context) (*Registry, error) {
	l.once.Do(func() {
		l.reg, l.err = l.build(ctx)
	})
	return l.reg, l.err
}
