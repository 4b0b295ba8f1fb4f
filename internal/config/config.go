// Package config 提供配置加载和管理功能
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用程序配置结构
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Device     DeviceConfig     `yaml:"device"`
	Multimodal MultimodalConfig `yaml:"multimodal"`
	ASR        ASRConfig        `yaml:"asr"`
	TTS        TTSConfig        `yaml:"tts"`
}

// ServerConfig HTTP服务器配置
type ServerConfig struct {
	Host      string `yaml:"host"`       // 服务器监听地址
	Port      int    `yaml:"port"`       // 服务器监听端口
	OutputDir string `yaml:"output_dir"` // 合成音频临时文件目录，为空时使用系统临时目录
	Mode      string `yaml:"mode"`       // gin运行模式: debug/release/test
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level"`  // 日志级别
	Format string `yaml:"format"` // 日志格式: text/json
}

// DeviceConfig 计算设备配置
type DeviceConfig struct {
	Preference string `yaml:"preference"` // auto/cuda:0/mps/cpu
}

// MultimodalConfig 图像描述/视觉问答模型配置
type MultimodalConfig struct {
	Host          string  `yaml:"host"`            // Ollama服务器地址
	Model         string  `yaml:"model"`           // 模型名称
	MaxNewTokens  int     `yaml:"max_new_tokens"`  // 最大生成token数
	DefaultPrompt string  `yaml:"default_prompt"`  // 默认提示词
	Temperature   float64 `yaml:"temperature"`     // 采样温度，0为贪心解码
	VerifyOnStart bool    `yaml:"verify_on_start"` // 启动时检查模型是否存在
}

// Addr 返回监听地址
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load 从文件加载配置
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return Parse(data)
}

// Parse 解析YAML配置内容
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	setDefaults(&config)

	// 验证配置
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &config, nil
}

// setDefaults 设置默认值
func setDefaults(config *Config) {
	if config.Server.Host == "" {
		config.Server.Host = "0.0.0.0"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 4000
	}
	if config.Server.Mode == "" {
		config.Server.Mode = "release"
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
	if config.Device.Preference == "" {
		config.Device.Preference = "auto"
	}

	if config.Multimodal.MaxNewTokens <= 0 {
		config.Multimodal.MaxNewTokens = 100
	}

	if config.ASR.SampleRate <= 0 {
		config.ASR.SampleRate = 16000 // 默认16kHz
	}
	if config.ASR.MaxNewTokens <= 0 {
		config.ASR.MaxNewTokens = 448
	}
	if config.ASR.FrameSize <= 0 {
		config.ASR.FrameSize = 1280 // 每帧40ms的音频数据
	}
	if config.ASR.HandshakeTimeout <= 0 {
		config.ASR.HandshakeTimeout = 10 * time.Second
	}

	if config.TTS.SampleRate <= 0 {
		config.TTS.SampleRate = TTSSampleRate
	}
}

// validateConfig 验证配置是否有效
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return ErrInvalidPort
	}

	switch config.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLogFormat, config.Log.Format)
	}

	switch config.Device.Preference {
	case "auto", "cuda:0", "mps", "cpu":
	default:
		return fmt.Errorf("%w: %s", ErrInvalidDevice, config.Device.Preference)
	}

	if config.Multimodal.Host == "" {
		return ErrEmptyMultimodalHost
	}
	if config.Multimodal.Model == "" {
		return ErrEmptyMultimodalModel
	}

	if err := config.ASR.Validate(); err != nil {
		return err
	}
	return config.TTS.Validate()
}
