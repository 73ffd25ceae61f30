package handler

import (
	"errors"
	"net/http"

	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type ListResponse struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// usecaseのエラーをHTTPレスポンスに落とす。
// ユーザー向け文言はタイ語、詳細はdetailに入れる。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	var ve *usecase.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": ve.Message,
			"field": ve.Field,
		})
	}

	var te *model.InvalidTransitionError
	if errors.As(err, &te) {
		//エッジ自体はあるが役割が足りない場合は「権限なし」の文言
		msg := "invalid order status transition"
		if !te.NoSuchEdge {
			msg = "ไม่มีสิทธิ์"
		}
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  msg,
			"detail": te.Error(),
		})
	}

	if errors.Is(err, usecase.ErrConcurrentModification) {
		//同時更新。一度だけリトライしてよい
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "กรุณาลองใหม่"})
	}

	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

//middleware.AuthJWT が c.Set("user_id", int64) した値を取り出す

func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok {
		return 0, false
	}

	return id, true
}

func getUserRoleFromContext(c echo.Context) (model.Role, bool) {
	v := c.Get(middleware.CtxUserRoleKey)
	if v == nil {
		return "", false
	}

	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}

	return model.Role(s), true
}
