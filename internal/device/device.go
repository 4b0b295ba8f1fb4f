// Package device 在启动时选择模型推理使用的计算设备
package device

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Device 计算设备标识
type Device string

const (
	CUDA Device = "cuda:0" // NVIDIA GPU
	MPS  Device = "mps"    // Apple Silicon
	CPU  Device = "cpu"
)

// IsAccelerator 是否为加速设备
func (d Device) IsAccelerator() bool {
	return d == CUDA || d == MPS
}

func (d Device) String() string {
	return string(d)
}

// Probe 探测可用的计算后端
type Probe interface {
	CUDAAvailable() bool
	MPSAvailable() bool
}

// SystemProbe 通过本机环境探测设备
type SystemProbe struct{}

// CUDAAvailable 存在NVIDIA驱动设备文件或nvidia-smi时认为CUDA可用
func (SystemProbe) CUDAAvailable() bool {
	if _, err := os.Stat("/dev/nvidiactl"); err == nil {
		return true
	}
	_, err := exec.LookPath("nvidia-smi")
	return err == nil
}

// MPSAvailable Apple Silicon上的macOS
func (SystemProbe) MPSAvailable() bool {
	return runtime.GOOS == "darwin" && runtime.GOARCH == "arm64"
}

// Parse 解析设备名称
func Parse(name string) (Device, error) {
	switch Device(name) {
	case CUDA, MPS, CPU:
		return Device(name), nil
	}
	return "", fmt.Errorf("未知的计算设备: %s", name)
}

// Select 选择计算设备，preference为auto时按 CUDA > MPS > CPU 顺序探测
func Select(preference string, probe Probe) (Device, error) {
	if preference != "" && preference != "auto" {
		d, err := Parse(preference)
		if err != nil {
			return "", err
		}
		logrus.WithField("device", d).Info("使用配置指定的计算设备")
		return d, nil
	}

	d := CPU
	switch {
	case probe.CUDAAvailable():
		d = CUDA
	case probe.MPSAvailable():
		d = MPS
	}
	logrus.WithField("device", d).Info("探测到计算设备")
	return d, nil
}
