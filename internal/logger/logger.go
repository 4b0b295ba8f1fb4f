// Package logger 提供基于logrus的日志初始化
package logger

import (
	"fmt"
	"io"
	"os"

	"visual_qa_server/internal/config"

	"github.com/sirupsen/logrus"
)

// Setup 根据配置初始化全局日志
func Setup(cfg config.LogConfig) error {
	return Configure(logrus.StandardLogger(), cfg, os.Stdout)
}

// Configure 配置指定的logger实例
func Configure(l *logrus.Logger, cfg config.LogConfig, out io.Writer) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("解析日志级别失败: %w", err)
	}
	l.SetLevel(level)
	l.SetOutput(out)

	switch cfg.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return nil
}
