package config

import "fmt"

// TTSSampleRate SpeechT5声码器输出采样率
const TTSSampleRate = 16000

// TTSConfig 语音合成配置
type TTSConfig struct {
	Host                 string `yaml:"host"`                   // 合成服务地址
	Model                string `yaml:"model"`                  // 声学模型名称
	Vocoder              string `yaml:"vocoder"`                // 声码器名称
	SampleRate           int    `yaml:"sample_rate"`            // 输出采样率，只支持16000
	SpeakerEmbeddingFile string `yaml:"speaker_embedding_file"` // 说话人x-vector文件(float32小端)
	VerifyOnStart        bool   `yaml:"verify_on_start"`        // 启动时检查服务健康
}

// Validate 验证TTS配置
func (c *TTSConfig) Validate() error {
	if c.Host == "" {
		return ErrEmptyTTSHost
	}
	if c.Model == "" {
		return ErrEmptyTTSModel
	}
	if c.SampleRate != TTSSampleRate {
		return fmt.Errorf("%w: %d", ErrInvalidTTSSampleRate, c.SampleRate)
	}
	return nil
}
