package storage

import "context"

// Storage はQR画像・スリップ・メニュー画像を置く外部ストレージの約束。
type Storage interface {
	// Put は保存して公開URLを返す。
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)

	// Delete はベストエフォート。存在しないpathはエラーにしない。
	Delete(ctx context.Context, path string) error
}
