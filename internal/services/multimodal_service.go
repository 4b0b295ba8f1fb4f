package services

import (
	"context"

	"visual_qa_server/internal/models"

	"github.com/sirupsen/logrus"
)

// MultimodalService 图像描述/视觉问答服务
type MultimodalService struct {
	captioner     models.Captioner
	defaultPrompt string
}

// NewMultimodalService 创建多模态服务
func NewMultimodalService(captioner models.Captioner, defaultPrompt string) *MultimodalService {
	return &MultimodalService{
		captioner:     captioner,
		defaultPrompt: defaultPrompt,
	}
}

// Ask 根据图像和提示词生成回答，提示词为空时使用默认提示词
func (s *MultimodalService) Ask(ctx context.Context, image []byte, prompt string) (string, error) {
	if prompt == "" {
		prompt = s.defaultPrompt
	}

	text, err := s.captioner.Caption(ctx, image, prompt)
	if err != nil {
		return "", err
	}

	logrus.WithFields(logrus.Fields{
		"prompt": prompt,
		"bytes":  len(image),
	}).Infof("多模态生成结果: %s", text)
	return text, nil
}
