// Package whisper 实现与Whisper流式识别服务的WebSocket通信
package whisper

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"visual_qa_server/internal/clients/ws"
	"visual_qa_server/internal/device"
	"visual_qa_server/internal/models"
	"visual_qa_server/internal/types"

	"github.com/sirupsen/logrus"
)

// Config Whisper客户端配置
type Config struct {
	ServerURL        string
	Model            string
	Device           device.Device
	SampleRate       int
	MaxNewTokens     int
	FrameSize        int
	HandshakeTimeout time.Duration
}

// Client 实现与 ASR 服务器的 WebSocket 通信，每次识别使用独立连接
type Client struct {
	config   Config
	wsClient *ws.Client
}

// NewClient 创建新的 Whisper 客户端
func NewClient(config Config) *Client {
	if config.FrameSize <= 0 {
		config.FrameSize = 1280
	}
	return &Client{
		config: config,
		wsClient: ws.NewClient(ws.Config{
			URL:              config.ServerURL,
			HandshakeTimeout: config.HandshakeTimeout,
		}),
	}
}

// Model 返回模型名称
func (c *Client) Model() string {
	return c.config.Model
}

// Ping 检查识别服务是否可连接
func (c *Client) Ping(ctx context.Context) error {
	sess, err := c.wsClient.Connect(ctx)
	if err != nil {
		return err
	}
	return sess.Close()
}

// Transcribe 发送整段PCM并等待最终识别结果
func (c *Client) Transcribe(ctx context.Context, pcm []byte) (string, error) {
	sess, err := c.wsClient.Connect(ctx)
	if err != nil {
		return "", err
	}
	defer sess.Close()

	var text string
	sess.RegisterHandler("result", func(message []byte) error {
		var resp models.WhisperResponse
		if err := json.Unmarshal(message, &resp); err != nil {
			return fmt.Errorf("解析识别结果失败: %w", err)
		}
		text = resp.Text
		if resp.Final {
			logrus.WithFields(logrus.Fields{
				"model":      c.config.Model,
				"confidence": resp.Confidence,
			}).Debug("收到最终识别结果")
			return ws.ErrDone
		}
		return nil
	})
	sess.RegisterHandler("error", func(message []byte) error {
		var resp models.WhisperResponse
		if err := json.Unmarshal(message, &resp); err != nil {
			return fmt.Errorf("解析错误消息失败: %w", err)
		}
		return fmt.Errorf("识别服务返回错误: %s", resp.Error)
	})

	done := make(chan error, 1)
	go func() {
		done <- sess.ReceiveLoop(ctx)
	}()

	if err := c.sendAudio(sess, pcm); err != nil {
		sess.Close()
		<-done
		return "", err
	}

	err = <-done
	if errors.Is(err, ws.ErrClosed) && text != "" {
		err = nil
	}
	if err != nil {
		return "", fmt.Errorf("接收识别结果失败: %w", err)
	}
	return text, nil
}

// sendAudio 依次发送配置帧、音频帧和结束帧
func (c *Client) sendAudio(sess *ws.Session, pcm []byte) error {
	if err := sess.SendMessage(models.WhisperRequest{
		Config: &models.WhisperConfig{
			Model:        c.config.Model,
			Device:       c.config.Device.String(),
			SampleRate:   c.config.SampleRate,
			MaxNewTokens: c.config.MaxNewTokens,
		},
	}); err != nil {
		return fmt.Errorf("发送配置帧失败: %w", err)
	}

	status := types.AudioFrameStatusFirst
	for i := 0; i < len(pcm); i += c.config.FrameSize {
		end := i + c.config.FrameSize
		if end > len(pcm) {
			end = len(pcm)
		}
		if err := sess.SendMessage(c.frame(status, pcm[i:end])); err != nil {
			return fmt.Errorf("发送音频帧失败: %w", err)
		}
		status = types.AudioFrameStatusContinue
	}

	if err := sess.SendMessage(c.frame(types.AudioFrameStatusEnd, nil)); err != nil {
		return fmt.Errorf("发送结束帧失败: %w", err)
	}
	return nil
}

func (c *Client) frame(status types.AudioFrameStatus, audio []byte) models.WhisperRequest {
	return models.WhisperRequest{
		Data: &models.WhisperAudioData{
			Status:   int(status),
			Format:   fmt.Sprintf(types.AudioFormatL16, c.config.SampleRate),
			Audio:    base64.StdEncoding.EncodeToString(audio),
			Encoding: types.AudioEncoding,
		},
	}
}
