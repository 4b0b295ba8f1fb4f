package models

// WhisperConfig Whisper流式服务会话配置帧
type WhisperConfig struct {
	Model        string `json:"model"`
	Device       string `json:"device"`
	SampleRate   int    `json:"sample_rate"`
	MaxNewTokens int    `json:"max_new_tokens"`
}

// WhisperAudioData 音频数据帧
type WhisperAudioData struct {
	Status   int    `json:"status"`
	Format   string `json:"format"`
	Audio    string `json:"audio"`
	Encoding string `json:"encoding"`
}

// WhisperRequest Whisper流式服务请求结构
type WhisperRequest struct {
	Config *WhisperConfig    `json:"config,omitempty"`
	Data   *WhisperAudioData `json:"data,omitempty"`
}

// WhisperResponse Whisper流式服务响应结构
type WhisperResponse struct {
	Type       string  `json:"type"`
	Text       string  `json:"text,omitempty"`
	Final      bool    `json:"final,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Error      string  `json:"error,omitempty"`
}
