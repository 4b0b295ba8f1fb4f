// Package types 定义基本类型
package types

// Task 模型任务类型
type Task string

// 定义模型任务常量
const (
	TaskMultimodal Task = "multimodal" // 图像描述/视觉问答
	TaskASR        Task = "asr"        // 语音识别
	TaskTTS        Task = "tts"        // 语音合成
)

// Tasks 所有任务，按加载顺序排列
var Tasks = []Task{TaskMultimodal, TaskASR, TaskTTS}

// AudioFrameStatus 音频帧状态
type AudioFrameStatus int

// 定义音频帧状态常量，与Whisper流式服务协议一致
const (
	AudioFrameStatusFirst    AudioFrameStatus = iota // 首帧
	AudioFrameStatusContinue                         // 中间帧
	AudioFrameStatusEnd                              // 结束帧
)

// 音频格式常量
const (
	AudioFormatL16 = "audio/L16;rate=%d" // 16位线性PCM
	AudioEncoding  = "raw"
)
