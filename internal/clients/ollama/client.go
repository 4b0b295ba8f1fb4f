package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Config Ollama客户端配置
type Config struct {
	Host  string // Ollama服务器地址（完整URL）
	Model string // 使用的模型名称
}

// Client Ollama客户端
type Client struct {
	config Config
	client *http.Client
}

// GenerateRequest 生成请求参数
type GenerateRequest struct {
	Model   string   `json:"model"`            // 模型名称
	Prompt  string   `json:"prompt"`           // 提示词
	Images  []string `json:"images,omitempty"` // base64编码的图片
	Stream  bool     `json:"stream"`           // 是否流式输出
	Options Options  `json:"options"`          // 可选参数
}

// Options 生成选项
type Options struct {
	Temperature *float64 `json:"temperature,omitempty"` // 温度参数，0为贪心解码
	NumPredict  int      `json:"num_predict,omitempty"` // 最大生成token数
	NumGPU      *int     `json:"num_gpu,omitempty"`     // 加载到GPU的层数，0表示仅用CPU
}

// GenerateResponse 生成响应
type GenerateResponse struct {
	Model           string `json:"model"`             // 模型名称
	CreatedAt       string `json:"created_at"`        // 创建时间
	Response        string `json:"response"`          // 生成的文本
	Done            bool   `json:"done"`              // 是否完成
	TotalDuration   int64  `json:"total_duration"`    // 总耗时(纳秒)
	LoadDuration    int64  `json:"load_duration"`     // 加载耗时(纳秒)
	PromptEvalCount int    `json:"prompt_eval_count"` // 提示词评估数量
	EvalCount       int    `json:"eval_count"`        // 评估数量
	EvalDuration    int64  `json:"eval_duration"`     // 评估耗时(纳秒)
}

// ShowResponse 模型信息
type ShowResponse struct {
	Details struct {
		Family        string `json:"family"`
		ParameterSize string `json:"parameter_size"`
	} `json:"details"`
}

// NewClient 创建新的Ollama客户端
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

// Generate 生成文本
func (c *Client) Generate(ctx context.Context, prompt string, images []string, options Options) (*GenerateResponse, error) {
	reqBody := GenerateRequest{
		Model:   c.config.Model,
		Prompt:  prompt,
		Images:  images,
		Stream:  false,
		Options: options,
	}

	var response GenerateResponse
	if err := c.post(ctx, "/api/generate", reqBody, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Show 获取模型信息，模型不存在时返回错误
func (c *Client) Show(ctx context.Context) (*ShowResponse, error) {
	var response ShowResponse
	if err := c.post(ctx, "/api/show", map[string]string{"model": c.config.Model}, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// post 发送JSON请求并解析响应
func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	// 序列化请求体
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Host+path, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("发送请求失败: %w", err)
	}
	defer resp.Body.Close()

	// 检查响应状态码
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("服务器返回错误: %d %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}
	return nil
}
