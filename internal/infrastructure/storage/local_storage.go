package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/erp-saas-api/internal/application/usecase"
)

var _ usecase.ObjectStorage = (*LocalStorage)(nil)

// LocalStorage guarda archivos en disco; el servidor HTTP los sirve bajo urlPrefix (ej. /uploads).
type LocalStorage struct {
	dir       string
	urlPrefix string
}

// NewLocalStorage crea el directorio base si no existe.
func NewLocalStorage(dir, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear directorio %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Dir devuelve el directorio base (para montar el static handler).
func (s *LocalStorage) Dir() string { return s.dir }

// Upload escribe el archivo y devuelve su URL relativa. Lee como máximo size bytes.
func (s *LocalStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := filepath.Clean("/" + key)[1:]
	if clean == "" || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("storage: clave inválida %q", key)
	}
	dst := filepath.Join(s.dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("storage: crear directorio: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("storage: crear archivo: %w", err)
	}
	if _, err := io.Copy(f, io.LimitReader(body, size)); err != nil {
		f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("storage: escribir archivo: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("storage: cerrar archivo: %w", err)
	}
	return s.urlPrefix + "/" + filepath.ToSlash(clean), nil
}
