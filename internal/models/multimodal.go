package models

import "context"

// Captioner 图像描述/视觉问答模型接口
type Captioner interface {
	// Caption 根据图像和可选提示词生成文本
	Caption(ctx context.Context, image []byte, prompt string) (string, error)
}
