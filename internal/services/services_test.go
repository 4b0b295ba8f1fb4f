package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"visual_qa_server/internal/audio"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCaptioner struct {
	prompts []string
	err     error
}

func (f *fakeCaptioner) Caption(ctx context.Context, image []byte, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return "caption:" + string(image), f.err
}

type fakeTranscriber struct {
	pcm []byte
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, pcm []byte) (string, error) {
	f.pcm = pcm
	return "hello world", nil
}

type fakeSynthesizer struct {
	err error
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	// 用文本长度区分不同请求的输出
	return make([]float32, len(text)), nil
}

func TestMultimodalServiceDefaultPrompt(t *testing.T) {
	captioner := &fakeCaptioner{}
	svc := NewMultimodalService(captioner, "This is a photo of ")

	text, err := svc.Ask(context.Background(), []byte("img"), "")
	require.NoError(t, err)
	assert.Equal(t, "caption:img", text)

	_, err = svc.Ask(context.Background(), []byte("img"), "what color?")
	require.NoError(t, err)
	assert.Equal(t, []string{"This is a photo of ", "what color?"}, captioner.prompts)
}

func TestMultimodalServiceError(t *testing.T) {
	svc := NewMultimodalService(&fakeCaptioner{err: errors.New("boom")}, "")
	_, err := svc.Ask(context.Background(), []byte("img"), "")
	assert.Error(t, err)
}

func wavBytes(t *testing.T, sampleRate int, data []int) *bytes.Reader {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "in.wav"))
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())

	raw, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func TestASRServiceTranscribe(t *testing.T) {
	transcriber := &fakeTranscriber{}
	svc := NewASRService(transcriber, 16000)

	text, err := svc.Transcribe(context.Background(), wavBytes(t, 16000, []int{1, 2}))
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
	assert.Equal(t, []byte{1, 0, 2, 0}, transcriber.pcm)
}

func TestASRServiceIgnoresFileSampleRate(t *testing.T) {
	transcriber := &fakeTranscriber{}
	svc := NewASRService(transcriber, 16000)

	// 44.1kHz的音频原样送入，不做重采样
	_, err := svc.Transcribe(context.Background(), wavBytes(t, 44100, []int{5, 6, 7}))
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 0, 6, 0, 7, 0}, transcriber.pcm)
}

func TestASRServiceInvalidAudio(t *testing.T) {
	svc := NewASRService(&fakeTranscriber{}, 16000)
	_, err := svc.Transcribe(context.Background(), bytes.NewReader([]byte("not audio")))
	assert.ErrorIs(t, err, audio.ErrInvalidWAV)
}

func TestTTSServiceWritesUniqueArtifacts(t *testing.T) {
	dir := t.TempDir()
	svc := NewTTSService(&fakeSynthesizer{}, 16000, dir)

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee", "ffffff"}
	artifacts := make([]*Artifact, len(texts))
	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			a, err := svc.Synthesize(context.Background(), text)
			assert.NoError(t, err)
			artifacts[i] = a
		}(i, text)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i, a := range artifacts {
		require.NotNil(t, a)
		assert.False(t, seen[a.Path], "文件名重复: %s", a.Path)
		seen[a.Path] = true
		assert.Equal(t, dir, filepath.Dir(a.Path))

		f, err := os.Open(a.Path)
		require.NoError(t, err)
		pcm, err := audio.DecodeWAV(f)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, 16000, pcm.SampleRate)
		assert.Len(t, pcm.Samples, len(texts[i]))

		a.Remove()
		_, err = os.Stat(a.Path)
		assert.True(t, os.IsNotExist(err))
	}
}

func TestTTSServiceSynthesizerError(t *testing.T) {
	dir := t.TempDir()
	svc := NewTTSService(&fakeSynthesizer{err: errors.New("vocoder")}, 16000, dir)

	_, err := svc.Synthesize(context.Background(), "hello")
	assert.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTTSServiceMissingOutputDir(t *testing.T) {
	svc := NewTTSService(&fakeSynthesizer{}, 16000, filepath.Join(t.TempDir(), "missing"))
	_, err := svc.Synthesize(context.Background(), "hello")
	assert.Error(t, err)
}
