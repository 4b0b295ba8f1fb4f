package config

import "errors"

// 配置相关错误
var (
	ErrInvalidPort          = errors.New("服务器端口必须大于0")
	ErrInvalidLogFormat     = errors.New("日志格式无效")
	ErrInvalidDevice        = errors.New("计算设备配置无效")
	ErrEmptyMultimodalHost  = errors.New("Ollama服务器地址不能为空")
	ErrEmptyMultimodalModel = errors.New("多模态模型名称不能为空")
	ErrEmptyASRServerURL    = errors.New("ASR服务器地址不能为空")
	ErrEmptyASRModel        = errors.New("ASR模型名称不能为空")
	ErrOddFrameSize         = errors.New("ASR帧大小必须是2的倍数")
	ErrEmptyTTSHost         = errors.New("TTS服务器地址不能为空")
	ErrEmptyTTSModel        = errors.New("TTS模型名称不能为空")
	ErrInvalidTTSSampleRate = errors.New("TTS输出采样率必须为16000")
)
