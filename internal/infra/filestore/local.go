package filestore

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"bdeo/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// LocalStore 本地上传目录，文件名按原样保存
type LocalStore struct {
	dir    string
	create func(path string) (io.WriteCloser, error)
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir, create: createFile}
}

func createFile(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// path 只接受单层文件名，其余字符按原样保留
func (s *LocalStore) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", ErrNotFound
	}
	return filepath.Join(s.dir, name), nil
}

// Save 写入文件，目录不存在时自动创建；同名文件直接覆盖
func (s *LocalStore) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	path, err := s.path(name)
	if err != nil {
		return fmt.Errorf("invalid file name %q", name)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "create upload dir")
	}

	f, err := s.create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	// 部分文件系统在关闭时才报告写入失败
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", path)
	}

	logger.Debug("Upload file saved", zap.String("path", path))
	return nil
}

func (s *LocalStore) Open(_ context.Context, name string) (*Object, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}

	return &Object{
		Body:        f,
		Size:        info.Size(),
		ContentType: ContentTypeByName(name),
		ModTime:     info.ModTime(),
	}, nil
}

func (s *LocalStore) Remove(_ context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, "remove %s", path)
	}
	return nil
}
