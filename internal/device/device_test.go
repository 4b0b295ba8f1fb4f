package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProbe struct {
	cuda bool
	mps  bool
}

func (p fakeProbe) CUDAAvailable() bool { return p.cuda }
func (p fakeProbe) MPSAvailable() bool  { return p.mps }

func TestSelect(t *testing.T) {
	tests := []struct {
		name       string
		preference string
		probe      fakeProbe
		want       Device
	}{
		{"CUDA优先", "auto", fakeProbe{cuda: true, mps: true}, CUDA},
		{"其次MPS", "auto", fakeProbe{mps: true}, MPS},
		{"回退CPU", "auto", fakeProbe{}, CPU},
		{"空配置等同auto", "", fakeProbe{cuda: true}, CUDA},
		{"配置覆盖探测", "cpu", fakeProbe{cuda: true}, CPU},
		{"配置指定MPS", "mps", fakeProbe{}, MPS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(tt.preference, tt.probe)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectUnknownPreference(t *testing.T) {
	_, err := Select("tpu", fakeProbe{})
	assert.Error(t, err)
}

func TestIsAccelerator(t *testing.T) {
	assert.True(t, CUDA.IsAccelerator())
	assert.True(t, MPS.IsAccelerator())
	assert.False(t, CPU.IsAccelerator())
}
