package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"visual_qa_server/internal/audio"
	"visual_qa_server/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Artifact 单次请求的合成音频文件
type Artifact struct {
	Path string
}

// Remove 删除临时文件
func (a *Artifact) Remove() {
	if err := os.Remove(a.Path); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).WithField("path", a.Path).Warn("删除合成音频失败")
	}
}

// TTSService 语音合成服务
type TTSService struct {
	synthesizer models.Synthesizer
	sampleRate  int
	outputDir   string
}

// NewTTSService 创建语音合成服务，outputDir为空时使用系统临时目录
func NewTTSService(synthesizer models.Synthesizer, sampleRate int, outputDir string) *TTSService {
	if outputDir == "" {
		outputDir = os.TempDir()
	}
	return &TTSService{
		synthesizer: synthesizer,
		sampleRate:  sampleRate,
		outputDir:   outputDir,
	}
}

// Synthesize 合成语音并写入本次请求独占的WAV文件，调用方负责Remove
func (s *TTSService) Synthesize(ctx context.Context, text string) (*Artifact, error) {
	samples, err := s.synthesizer.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(s.outputDir, fmt.Sprintf("tts-%s.wav", uuid.NewString()))
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("创建合成音频文件失败: %w", err)
	}
	artifact := &Artifact{Path: path}

	if err := audio.EncodeWAV(f, samples, s.sampleRate); err != nil {
		f.Close()
		artifact.Remove()
		return nil, err
	}
	if err := f.Close(); err != nil {
		artifact.Remove()
		return nil, fmt.Errorf("写入合成音频文件失败: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"text":    text,
		"samples": len(samples),
		"path":    path,
	}).Info("语音合成完成")
	return artifact, nil
}
