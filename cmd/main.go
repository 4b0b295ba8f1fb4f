package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"visual_qa_server/internal/config"
	"visual_qa_server/internal/device"
	"visual_qa_server/internal/logger"
	"visual_qa_server/internal/middleware"
	"visual_qa_server/internal/registry"
	"visual_qa_server/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "visual_qa_server",
		Short:         "图像描述、语音识别与语音合成HTTP服务",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "配置文件路径")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "device",
		Short: "打印将要使用的推理设备",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			dev, err := device.Select(cfg.Device.Preference, device.SystemProbe{})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dev)
			return nil
		},
	})

	return rootCmd
}

// loadConfig 加载配置并初始化日志
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		logrus.Errorf("加载配置失败: %v", err)
		return nil, err
	}
	if err := logger.Setup(cfg.Log); err != nil {
		logrus.Errorf("初始化日志失败: %v", err)
		return nil, err
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logrus.Info("视觉问答服务启动中...")

	dev, err := device.Select(cfg.Device.Preference, device.SystemProbe{})
	if err != nil {
		logrus.Errorf("选择推理设备失败: %v", err)
		return err
	}

	// 模型只在启动时构建一次，所有请求共享
	loader := registry.NewLoader(func(ctx context.Context) (*registry.Registry, error) {
		return registry.Build(ctx, cfg, dev)
	})
	reg, err := loader.Load(ctx)
	if err != nil {
		logrus.Errorf("加载模型失败: %v", err)
		return err
	}

	if cfg.Server.OutputDir != "" {
		if err := os.MkdirAll(cfg.Server.OutputDir, 0o755); err != nil {
			logrus.Errorf("创建输出目录失败: %v", err)
			return err
		}
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	middleware.Setup(r)
	routes.RegisterRoutes(r, reg, cfg)

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("HTTP服务监听 %s, 设备: %s", srv.Addr, dev)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logrus.Errorf("HTTP服务异常退出: %v", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logrus.Info("正在关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("关闭服务失败: %v", err)
		return err
	}
	logrus.Info("服务已关闭")
	return nil
}
