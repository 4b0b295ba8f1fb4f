package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
multimodal:
  host: http://127.0.0.1:11434
  model: llava
asr:
  server_url: ws://127.0.0.1:8090/asr
  model: whisper-large
tts:
  host: http://127.0.0.1:8091
  model: speecht5_tts
`

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:4000", cfg.Server.Addr())
	assert.Equal(t, "auto", cfg.Device.Preference)
	assert.Equal(t, 100, cfg.Multimodal.MaxNewTokens)
	assert.Equal(t, 16000, cfg.ASR.SampleRate)
	assert.Equal(t, 448, cfg.ASR.MaxNewTokens)
	assert.Equal(t, 1280, cfg.ASR.FrameSize)
	assert.Equal(t, 10*time.Second, cfg.ASR.HandshakeTimeout)
	assert.Equal(t, 16000, cfg.TTS.SampleRate)
	assert.Zero(t, cfg.Multimodal.Temperature)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestParseOverrides(t *testing.T) {
	data := minimalYAML + `
server:
  port: 5000
device:
  preference: cpu
log:
  format: json
`
	cfg, err := Parse([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "cpu", cfg.Device.Preference)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{
			name:    "缺少多模态地址",
			data:    "multimodal:\n  model: llava\n",
			wantErr: ErrEmptyMultimodalHost,
		},
		{
			name:    "非法设备",
			data:    minimalYAML + "device:\n  preference: tpu\n",
			wantErr: ErrInvalidDevice,
		},
		{
			name:    "非法日志格式",
			data:    minimalYAML + "log:\n  format: xml\n",
			wantErr: ErrInvalidLogFormat,
		},
		{
			name: "缺少ASR地址",
			data: `
multimodal:
  host: http://127.0.0.1:11434
  model: llava
asr:
  model: whisper-large
`,
			wantErr: ErrEmptyASRServerURL,
		},
		{
			name: "TTS采样率非16000",
			data: `
multimodal:
  host: http://127.0.0.1:11434
  model: llava
asr:
  server_url: ws://127.0.0.1:8090/asr
  model: whisper-large
tts:
  host: http://127.0.0.1:8091
  model: speecht5_tts
  sample_rate: 22050
`,
			wantErr: ErrInvalidTTSSampleRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestASRConfigValidateFrameSize(t *testing.T) {
	c := ASRConfig{ServerURL: "ws://x", Model: "m", FrameSize: 1281}
	assert.ErrorIs(t, c.Validate(), ErrOddFrameSize)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "llava", cfg.Multimodal.Model)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
