package usecase

import (
	"errors"
	"fmt"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 入力不正。フィールド単位のメッセージを持つ。自動リトライはしない。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// 楽観的更新の空振り。呼び出し側は一度だけリトライしてよい。
var ErrConcurrentModification = errors.New("concurrent modification")

// 外部依存（DB・ストレージ・QRエンコーダ）の失敗。
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// 注文作成のどこかが失敗した。部分的な注文は残さない。
type OrderCreationError struct {
	Step string
	Err  error
}

func (e *OrderCreationError) Error() string {
	return fmt.Sprintf("order creation failed at %s: %v", e.Step, e.Err)
}

func (e *OrderCreationError) Unwrap() error {
	return e.Err
}
