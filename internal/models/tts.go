package models

import "context"

// Synthesizer 语音合成模型接口
type Synthesizer interface {
	// Synthesize 使用固定说话人合成语音，返回[-1,1]范围的float32采样
	Synthesize(ctx context.Context, text string) ([]float32, error)
}
