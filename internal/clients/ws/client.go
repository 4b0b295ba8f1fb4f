// Package ws 提供通用的WebSocket客户端实现
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var (
	// ErrDone 消息处理器返回该错误表示会话正常结束
	ErrDone = errors.New("会话结束")
	// ErrClosed 服务端正常关闭连接
	ErrClosed = errors.New("连接已被服务端关闭")
)

// MessageHandler 消息处理函数类型
type MessageHandler func(message []byte) error

// Config WebSocket客户端配置
type Config struct {
	URL              string        // WebSocket服务器地址
	HandshakeTimeout time.Duration // 握手超时
}

// Client WebSocket客户端，每次Connect建立独立会话
type Client struct {
	url    string
	dialer websocket.Dialer
}

// NewClient 创建新的WebSocket客户端
func NewClient(config Config) *Client {
	timeout := config.HandshakeTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url: config.URL,
		dialer: websocket.Dialer{
			HandshakeTimeout: timeout,
		},
	}
}

// Connect 连接到WebSocket服务器
func (c *Client) Connect(ctx context.Context) (*Session, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, fmt.Errorf("解析URL失败: %w", err)
	}

	conn, _, err := c.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("连接WebSocket失败: %w", err)
	}
	logrus.WithField("url", c.url).Debug("已连接到WebSocket服务器")

	return &Session{
		conn:     conn,
		handlers: make(map[string]MessageHandler),
	}, nil
}

// Session 单个WebSocket会话
type Session struct {
	conn      *websocket.Conn
	writeLock sync.Mutex
	handlers  map[string]MessageHandler
	closeOnce sync.Once
}

// RegisterHandler 注册消息处理器，需在ReceiveLoop之前调用
func (s *Session) RegisterHandler(messageType string, handler MessageHandler) {
	s.handlers[messageType] = handler
}

// SendMessage 发送JSON消息到服务器
func (s *Session) SendMessage(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("消息序列化失败: %w", err)
	}

	s.writeLock.Lock()
	defer s.writeLock.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("消息发送失败: %w", err)
	}
	return nil
}

// ReceiveLoop 接收消息直到处理器返回ErrDone、连接关闭或ctx取消
func (s *Session) ReceiveLoop(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			s.conn.Close()
		case <-stop:
		}
	}()

	for {
		err := s.receiveMessage()
		if err == nil {
			continue
		}
		if errors.Is(err, ErrDone) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
			return ErrClosed
		}
		return err
	}
}

// receiveMessage 接收单条消息
func (s *Session) receiveMessage() error {
	_, message, err := s.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("读取消息失败: %w", err)
	}

	// 解析消息类型
	var msg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		return fmt.Errorf("解析消息失败: %w", err)
	}
	if msg.Type == "" {
		return fmt.Errorf("消息类型无效")
	}

	// 根据消息类型调用对应的处理器
	if handler, ok := s.handlers[msg.Type]; ok {
		return handler(message)
	}
	logrus.WithField("type", msg.Type).Debug("忽略未注册类型的消息")
	return nil
}

// Close 发送关闭帧并关闭连接
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.writeLock.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.writeLock.Unlock()
		err = s.conn.Close()
	})
	return err
}
