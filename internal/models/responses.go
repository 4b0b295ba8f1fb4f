package models

import "errors"

// ErrFileMissing 上传请求缺少文件字段或文件名为空
var ErrFileMissing = errors.New("File is missing")

// MultimodalResponse /multimodal 响应
type MultimodalResponse struct {
	Response string `json:"response"`
}

// ASRResponse /asr 响应
type ASRResponse struct {
	Transcription string `json:"transcription"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse /health 响应
type HealthResponse struct {
	Status string            `json:"status"`
	Device string            `json:"device"`
	Models map[string]string `json:"models"`
}
