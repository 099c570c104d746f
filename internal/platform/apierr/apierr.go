// Package apierr はドメイン共通のエラーモデルとHTTP変換。
package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Code string

const (
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeNotFound         Code = "NOT_FOUND"
	CodeCapacityExceeded Code = "CAPACITY_EXCEEDED"
	CodeDuplicate        Code = "DUPLICATE"
	CodeConflict         Code = "CONFLICT"
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeForbidden        Code = "FORBIDDEN"
	CodeInternal         Code = "INTERNAL"
)

type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func Invalid(msg string) *Error   { return &Error{Code: CodeInvalidArgument, Message: msg} }
func NotFound(msg string) *Error  { return &Error{Code: CodeNotFound, Message: msg} }
func Capacity(msg string) *Error  { return &Error{Code: CodeCapacityExceeded, Message: msg} }
func Duplicate(msg string) *Error { return &Error{Code: CodeDuplicate, Message: msg} }
func Conflict(msg string) *Error  { return &Error{Code: CodeConflict, Message: msg} }
func Internal(msg string) *Error  { return &Error{Code: CodeInternal, Message: msg} }

// CodeOf: APIエラーでなければ INTERNAL
func CodeOf(err error) Code {
	var api *Error
	if errors.As(err, &api) {
		return api.Code
	}
	return CodeInternal
}

// Is: err が指定コードの APIエラーか
func Is(err error, code Code) bool {
	var api *Error
	return errors.As(err, &api) && api.Code == code
}

func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeCapacityExceeded, CodeDuplicate, CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

type Body struct {
	Error *Error `json:"error"`
}

// BodyFrom: 想定外のエラーは内容を外に出さない
func BodyFrom(err error) Body {
	var api *Error
	if errors.As(err, &api) {
		return Body{Error: api}
	}
	return Body{Error: Internal("internal error")}
}

// JSON: エラーをステータス付きで返す
func JSON(c *gin.Context, err error) {
	if CodeOf(err) == CodeInternal {
		_ = c.Error(err)
	}
	c.JSON(HTTPStatus(err), BodyFrom(err))
}

// Abort: ミドルウェア用
func Abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(HTTPStatus(err), BodyFrom(err))
}
