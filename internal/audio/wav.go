// Package audio 处理WAV编解码和PCM采样转换
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/riff"
	"github.com/go-audio/wav"
)

// 音频相关错误
var (
	ErrInvalidWAV      = errors.New("不是有效的WAV文件")
	ErrUnsupportedWAV  = errors.New("不支持的WAV编码")
	ErrInvalidFloatPCM = errors.New("float32 PCM数据长度必须是4的倍数")
)

// WAV格式码
const (
	wavFormatPCM        = 1
	wavFormatIEEEFloat  = 3
	wavFormatExtensible = 0xFFFE
)

// wavFmt fmt块的固定字段
type wavFmt struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// wavExtension WAVE_FORMAT_EXTENSIBLE扩展字段，子格式GUID的前两个字节即实际格式码
type wavExtension struct {
	Size        uint16
	ValidBits   uint16
	ChannelMask uint32
	SubFormat   uint16
	GUIDTail    [14]byte
}

// PCM 单声道16位PCM音频
type PCM struct {
	Samples    []int16
	SampleRate int // 文件头声明的采样率
	Channels   int // 原始声道数
}

// Bytes 返回小端序的原始PCM字节
func (p *PCM) Bytes() []byte {
	buf := make([]byte, len(p.Samples)*2)
	for i, s := range p.Samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}

// Duration 按给定采样率计算时长(秒)
func (p *PCM) Duration(sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(len(p.Samples)) / float64(sampleRate)
}

// DecodeWAV 解码WAV为单声道16位PCM，多声道只保留第一个声道。
// 支持整数PCM、IEEE浮点以及二者的EXTENSIBLE封装
func DecodeWAV(r io.ReadSeeker) (*PCM, error) {
	header, format, data, err := scanWAV(r)
	if err != nil {
		return nil, err
	}

	switch format {
	case wavFormatPCM:
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("重置音频读取位置失败: %w", err)
		}
		return decodeIntWAV(r)
	case wavFormatIEEEFloat:
		return decodeFloatWAV(header, data)
	}
	return nil, fmt.Errorf("%w: format=%d", ErrUnsupportedWAV, format)
}

// scanWAV 遍历RIFF块，返回fmt块、实际格式码以及尚未读取的data块
func scanWAV(r io.Reader) (wavFmt, uint16, *riff.Chunk, error) {
	var header wavFmt
	var format uint16

	p := riff.New(r)
	if err := p.ParseHeaders(); err != nil || p.Format != riff.WavFormatID {
		return header, 0, nil, ErrInvalidWAV
	}

	haveFmt := false
	for {
		ch, err := p.NextChunk()
		if err != nil {
			return header, 0, nil, ErrInvalidWAV
		}

		switch ch.ID {
		case riff.FmtID:
			if err := ch.ReadLE(&header); err != nil {
				return header, 0, nil, ErrInvalidWAV
			}
			format = header.AudioFormat
			if format == wavFormatExtensible {
				var ext wavExtension
				if ch.Size < binary.Size(header)+binary.Size(ext) {
					return header, 0, nil, ErrInvalidWAV
				}
				if err := ch.ReadLE(&ext); err != nil {
					return header, 0, nil, ErrInvalidWAV
				}
				format = ext.SubFormat
			}
			haveFmt = true
			ch.Drain()
		case riff.DataFormatID:
			if !haveFmt {
				return header, 0, nil, ErrInvalidWAV
			}
			return header, format, ch, nil
		default:
			ch.Drain()
		}
	}
}

// decodeIntWAV 解码整数PCM
func decodeIntWAV(r io.ReadSeeker) (*PCM, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("读取PCM数据失败: %w", err)
	}

	channels := int(d.NumChans)
	if channels < 1 {
		channels = 1
	}
	bitDepth := int(d.BitDepth)

	samples := make([]int16, 0, len(buf.Data)/channels)
	for i := 0; i < len(buf.Data); i += channels {
		s, err := toInt16(buf.Data[i], bitDepth)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}

	return &PCM{
		Samples:    samples,
		SampleRate: int(d.SampleRate),
		Channels:   channels,
	}, nil
}

// decodeFloatWAV 解码32/64位IEEE浮点采样
func decodeFloatWAV(header wavFmt, data *riff.Chunk) (*PCM, error) {
	channels := int(header.NumChannels)
	if channels < 1 {
		channels = 1
	}
	width := int(header.BitsPerSample) / 8
	if width != 4 && width != 8 {
		return nil, fmt.Errorf("%w: float bit_depth=%d", ErrUnsupportedWAV, header.BitsPerSample)
	}

	raw, err := io.ReadAll(io.LimitReader(data, int64(data.Size)))
	if err != nil {
		return nil, fmt.Errorf("读取PCM数据失败: %w", err)
	}
	frame := width * channels
	raw = raw[:len(raw)-len(raw)%frame]

	samples := make([]int16, 0, len(raw)/frame)
	if width == 4 {
		values, err := DecodeFloat32LE(raw)
		if err != nil {
			return nil, err
		}
		for i := 0; i < len(values); i += channels {
			samples = append(samples, floatToInt16(values[i]))
		}
	} else {
		for off := 0; off < len(raw); off += frame {
			v := math.Float64frombits(binary.LittleEndian.Uint64(raw[off:]))
			samples = append(samples, floatToInt16(float32(v)))
		}
	}

	return &PCM{
		Samples:    samples,
		SampleRate: int(header.SampleRate),
		Channels:   channels,
	}, nil
}

func toInt16(v, bitDepth int) (int16, error) {
	switch bitDepth {
	case 8:
		return int16((v - 128) << 8), nil
	case 16:
		return int16(v), nil
	case 24:
		return int16(v >> 8), nil
	case 32:
		return int16(v >> 16), nil
	}
	return 0, fmt.Errorf("%w: bit_depth=%d", ErrUnsupportedWAV, bitDepth)
}

// EncodeWAV 将[-1,1]范围的float32采样编码为16位单声道WAV
func EncodeWAV(w io.WriteSeeker, samples []float32, sampleRate int) error {
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(floatToInt16(s))
	}

	enc := wav.NewEncoder(w, sampleRate, 16, 1, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("写入WAV数据失败: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("关闭WAV编码器失败: %w", err)
	}
	return nil
}

func floatToInt16(s float32) int16 {
	if math.IsNaN(float64(s)) {
		return 0
	}
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int16(math.Round(float64(s) * math.MaxInt16))
}

// DecodeFloat32LE 解析小端序float32数组
func DecodeFloat32LE(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, ErrInvalidFloatPCM
	}
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out, nil
}

// EncodeFloat32LE 将float32数组编码为小端序字节
func EncodeFloat32LE(samples []float32) []byte {
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(s))
	}
	return buf
}
