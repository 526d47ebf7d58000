package filestore

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"time"
)

// ErrNotFound 文件不存在
var ErrNotFound = errors.New("file not found")

// Object 读取到的文件，调用方负责关闭 Body
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
	ModTime     time.Time
}

// Store 上传文件存储（本地目录或对象存储）
type Store interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (*Object, error)
	Remove(ctx context.Context, name string) error
}

// 视频格式不在 Go 内置的 MIME 表中，显式注册
var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".flv":  "video/x-flv",
}

func init() {
	for ext, typ := range videoTypes {
		_ = mime.AddExtensionType(ext, typ)
	}
}

// ContentTypeByName 按扩展名推断 Content-Type
func ContentTypeByName(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
