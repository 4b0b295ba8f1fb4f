package models

import "context"

// Transcriber 语音识别模型接口
type Transcriber interface {
	// Transcribe 将16位单声道PCM按固定采样率识别为文本
	Transcribe(ctx context.Context, pcm []byte) (string, error)
}
