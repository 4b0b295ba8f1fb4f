package whisper

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"visual_qa_server/internal/device"
	"visual_qa_server/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeASRServer 模拟Whisper流式识别服务
type fakeASRServer struct {
	upgrader websocket.Upgrader
	failWith string // 非空时在结束帧后返回错误消息

	mu       sync.Mutex
	config   *models.WhisperConfig
	statuses []int
	audio    []byte
}

func (s *fakeASRServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req models.WhisperRequest
		if err := json.Unmarshal(message, &req); err != nil {
			return
		}

		s.mu.Lock()
		if req.Config != nil {
			s.config = req.Config
		}
		if req.Data != nil {
			s.statuses = append(s.statuses, req.Data.Status)
			chunk, _ := base64.StdEncoding.DecodeString(req.Data.Audio)
			s.audio = append(s.audio, chunk...)
		}
		n := len(s.audio)
		s.mu.Unlock()

		if req.Data == nil || req.Data.Status != 2 {
			continue
		}

		if s.failWith != "" {
			conn.WriteJSON(models.WhisperResponse{Type: "error", Error: s.failWith})
			return
		}
		conn.WriteJSON(models.WhisperResponse{Type: "result", Text: "partial"})
		conn.WriteJSON(models.WhisperResponse{Type: "result", Text: fmt.Sprintf("收到%d字节", n), Final: true, Confidence: 0.93})
	}
}

func newTestClient(t *testing.T, srv *fakeASRServer) *Client {
	t.Helper()
	server := httptest.NewServer(srv)
	t.Cleanup(server.Close)

	return NewClient(Config{
		ServerURL:        "ws" + strings.TrimPrefix(server.URL, "http"),
		Model:            "whisper-large",
		Device:           device.CPU,
		SampleRate:       16000,
		MaxNewTokens:     448,
		FrameSize:        4,
		HandshakeTimeout: time.Second,
	})
}

func TestTranscribe(t *testing.T) {
	srv := &fakeASRServer{}
	client := newTestClient(t, srv)

	pcm := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	text, err := client.Transcribe(context.Background(), pcm)
	require.NoError(t, err)
	assert.Equal(t, "收到10字节", text)

	srv.mu.Lock()
	defer srv.mu.Unlock()
	require.NotNil(t, srv.config)
	assert.Equal(t, "whisper-large", srv.config.Model)
	assert.Equal(t, "cpu", srv.config.Device)
	assert.Equal(t, 16000, srv.config.SampleRate)
	assert.Equal(t, 448, srv.config.MaxNewTokens)
	// 10字节按4字节分帧: 首帧、中间帧、中间帧、结束帧
	assert.Equal(t, []int{0, 1, 1, 2}, srv.statuses)
	assert.Equal(t, pcm, srv.audio)
}

func TestTranscribeEmptyAudio(t *testing.T) {
	srv := &fakeASRServer{}
	client := newTestClient(t, srv)

	text, err := client.Transcribe(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "收到0字节", text)

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Equal(t, []int{2}, srv.statuses)
}

func TestTranscribeServerError(t *testing.T) {
	client := newTestClient(t, &fakeASRServer{failWith: "模型未加载"})

	_, err := client.Transcribe(context.Background(), []byte{0, 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "模型未加载")
}

func TestTranscribeConnectFailure(t *testing.T) {
	client := NewClient(Config{ServerURL: "ws://127.0.0.1:1/asr", HandshakeTimeout: time.Second})
	_, err := client.Transcribe(context.Background(), []byte{0, 0})
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	client := newTestClient(t, &fakeASRServer{})
	assert.NoError(t, client.Ping(context.Background()))
}
