package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"visual_qa_server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Hello 问候路由
func Hello(c *gin.Context) {
	c.String(http.StatusOK, "Hello World!")
}

// Health 健康检查路由
func Health(device string, modelNames map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status: "ok",
			Device: device,
			Models: modelNames,
		})
	}
}

// formFile 获取必填的上传文件，缺失或文件名为空时返回ErrFileMissing
func formFile(c *gin.Context, field string) (multipart.File, error) {
	header, err := c.FormFile(field)
	if err != nil || header.Filename == "" {
		return nil, models.ErrFileMissing
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	return f, nil
}

// readFormFile 读取必填上传文件的全部内容
func readFormFile(c *gin.Context, field string) ([]byte, error) {
	f, err := formFile(c, field)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// writeError 将错误转换为JSON响应
func writeError(c *gin.Context, err error) {
	if errors.Is(err, models.ErrFileMissing) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	logrus.WithError(err).WithField("path", c.FullPath()).Error("处理请求失败")
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
}
