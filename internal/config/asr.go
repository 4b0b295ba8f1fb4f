package config

import "time"

// ASRConfig 语音识别配置
type ASRConfig struct {
	ServerURL        string        `yaml:"server_url"`        // Whisper流式服务地址(ws://...)
	Model            string        `yaml:"model"`             // 模型名称
	SampleRate       int           `yaml:"sample_rate"`       // 采样率，上传音频一律按此采样率解释
	MaxNewTokens     int           `yaml:"max_new_tokens"`    // 最大生成token数
	FrameSize        int           `yaml:"frame_size"`        // 每帧发送的字节数
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"` // WebSocket握手超时
	VerifyOnStart    bool          `yaml:"verify_on_start"`   // 启动时检查服务可连接
}

// Validate 验证ASR配置
func (c *ASRConfig) Validate() error {
	if c.ServerURL == "" {
		return ErrEmptyASRServerURL
	}
	if c.Model == "" {
		return ErrEmptyASRModel
	}
	if c.FrameSize%2 != 0 {
		return ErrOddFrameSize
	}
	return nil
}
