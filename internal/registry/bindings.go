package registry

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"visual_qa_server/internal/audio"
	"visual_qa_server/internal/clients/ollama"
	"visual_qa_server/internal/clients/synth"
	"visual_qa_server/internal/clients/whisper"
	"visual_qa_server/internal/device"
)

// SpeakerEmbeddingSize x-vector维度
const SpeakerEmbeddingSize = 512

// MultimodalBinding 图像描述/视觉问答模型绑定
type MultimodalBinding struct {
	client       *ollama.Client
	device       device.Device
	maxNewTokens int
	temperature  float64
}

// Caption 单次生成，输出长度受maxNewTokens限制
func (b *MultimodalBinding) Caption(ctx context.Context, image []byte, prompt string) (string, error) {
	temperature := b.temperature
	options := ollama.Options{
		Temperature: &temperature,
		NumPredict:  b.maxNewTokens,
	}
	if !b.device.IsAccelerator() {
		cpuOnly := 0
		options.NumGPU = &cpuOnly
	}

	images := []string{base64.StdEncoding.EncodeToString(image)}
	resp, err := b.client.Generate(ctx, prompt, images, options)
	if err != nil {
		return "", fmt.Errorf("多模态模型生成失败: %w", err)
	}
	return strings.TrimSpace(resp.Response), nil
}

// ASRBinding 语音识别模型绑定
type ASRBinding struct {
	client *whisper.Client
}

// Transcribe 识别PCM音频
func (b *ASRBinding) Transcribe(ctx context.Context, pcm []byte) (string, error) {
	text, err := b.client.Transcribe(ctx, pcm)
	if err != nil {
		return "", fmt.Errorf("语音识别失败: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// TTSBinding 语音合成模型绑定，说话人固定
type TTSBinding struct {
	client  *synth.Client
	speaker []float32
}

// Synthesize 使用固定说话人合成语音
func (b *TTSBinding) Synthesize(ctx context.Context, text string) ([]float32, error) {
	samples, err := b.client.Synthesize(ctx, text, b.speaker)
	if err != nil {
		return nil, fmt.Errorf("语音合成失败: %w", err)
	}
	return samples, nil
}

// LoadSpeakerEmbedding 读取小端序float32格式的x-vector，路径为空时返回nil
func LoadSpeakerEmbedding(path string) ([]float32, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取说话人向量失败: %w", err)
	}
	embedding, err := audio.DecodeFloat32LE(data)
	if err != nil {
		return nil, fmt.Errorf("解析说话人向量失败: %w", err)
	}
	if len(embedding) != SpeakerEmbeddingSize {
		return nil, fmt.Errorf("说话人向量维度错误: 期望%d，实际%d", SpeakerEmbeddingSize, len(embedding))
	}
	return embedding, nil
}
