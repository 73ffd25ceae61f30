package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalStorage_PutAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:8080/files/")
	assert.NoError(t, err)

	url, err := s.Put(context.Background(), "qr/ORD-20250615-001.png", []byte("png-bytes"), "image/png")
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/qr/ORD-20250615-001.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "qr", "ORD-20250615-001.png"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	assert.NoError(t, s.Delete(context.Background(), "qr/ORD-20250615-001.png"))
	_, err = os.Stat(filepath.Join(dir, "qr", "ORD-20250615-001.png"))
	assert.True(t, os.IsNotExist(err))

	// 二重削除はエラーにしない
	assert.NoError(t, s.Delete(context.Background(), "qr/ORD-20250615-001.png"))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/files")
	assert.NoError(t, err)

	_, err = s.Put(context.Background(), "../outside.png", []byte("x"), "image/png")
	assert.Error(t, err)
}
