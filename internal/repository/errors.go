package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// 条件付き更新が空振りした（読み取り時と状態が変わっている）
	ErrStatusConflict = errors.New("status conflict")
)
