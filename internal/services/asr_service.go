package services

import (
	"context"
	"fmt"
	"io"

	"visual_qa_server/internal/audio"
	"visual_qa_server/internal/models"

	"github.com/sirupsen/logrus"
)

// ASRService 语音识别服务
type ASRService struct {
	transcriber models.Transcriber
	sampleRate  int
}

// NewASRService 创建新的ASR服务实例
func NewASRService(transcriber models.Transcriber, sampleRate int) *ASRService {
	return &ASRService{
		transcriber: transcriber,
		sampleRate:  sampleRate,
	}
}

// Transcribe 解码上传的WAV并识别。音频一律按固定采样率解释，不做重采样
func (s *ASRService) Transcribe(ctx context.Context, r io.ReadSeeker) (string, error) {
	pcm, err := audio.DecodeWAV(r)
	if err != nil {
		return "", fmt.Errorf("解码音频失败: %w", err)
	}

	log := logrus.WithFields(logrus.Fields{
		"file_rate": pcm.SampleRate,
		"channels":  pcm.Channels,
		"seconds":   pcm.Duration(s.sampleRate),
	})
	if pcm.SampleRate != s.sampleRate {
		// 模型只接受16kHz，这里只告警不重采样
		log.Warnf("上传音频采样率与模型采样率%dHz不一致，按%dHz处理", s.sampleRate, s.sampleRate)
	}

	text, err := s.transcriber.Transcribe(ctx, pcm.Bytes())
	if err != nil {
		return "", err
	}

	log.Infof("识别结果: %s", text)
	return text, nil
}
