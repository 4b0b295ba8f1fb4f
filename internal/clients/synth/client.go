// Package synth 语音合成服务HTTP客户端
package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"visual_qa_server/internal/audio"
)

// Config 合成服务客户端配置
type Config struct {
	Host       string // 合成服务地址
	Model      string // 声学模型
	Vocoder    string // 声码器
	Device     string // 计算设备
	SampleRate int    // 输出采样率
}

// SynthesizeRequest 合成请求
type SynthesizeRequest struct {
	Text             string    `json:"text"`
	Model            string    `json:"model"`
	Vocoder          string    `json:"vocoder,omitempty"`
	SpeakerEmbedding []float32 `json:"speaker_embedding,omitempty"`
	Device           string    `json:"device"`
	SampleRate       int       `json:"sample_rate"`
}

// Client 合成服务客户端
type Client struct {
	config Config
	client *http.Client
}

// NewClient 创建合成服务客户端
func NewClient(config Config) *Client {
	config.Host = strings.TrimRight(config.Host, "/")
	return &Client{
		config: config,
		client: &http.Client{},
	}
}

// Model 返回模型名称
func (c *Client) Model() string {
	return c.config.Model
}

// Synthesize 合成语音，服务端返回小端序float32 PCM
func (c *Client) Synthesize(ctx context.Context, text string, speaker []float32) ([]float32, error) {
	jsonData, err := json.Marshal(SynthesizeRequest{
		Text:             text,
		Model:            c.config.Model,
		Vocoder:          c.config.Vocoder,
		SpeakerEmbedding: speaker,
		Device:           c.config.Device,
		SampleRate:       c.config.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Host+"/synthesize", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("服务器返回错误: %d %s", resp.StatusCode, string(body))
	}

	samples, err := audio.DecodeFloat32LE(body)
	if err != nil {
		return nil, fmt.Errorf("解析合成音频失败: %w", err)
	}
	return samples, nil
}

// Health 检查合成服务健康状态
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Host+"/health", nil)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("发送请求失败: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("合成服务不可用: %d", resp.StatusCode)
	}
	return nil
}
