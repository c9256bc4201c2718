package errors

import (
	"errors"
	"fmt"
)

// Kind 业务错误分类，由 HTTP 层映射为状态码
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindBadRequest
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBadRequest:
		return "bad_request"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error 带分类的业务错误
// Err 指向哨兵错误，使 errors.Is 在消息动态生成时仍可匹配
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// New 创建业务错误（通常用于声明哨兵错误）
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap 以新的消息包装哨兵错误，保留其分类
func Wrap(sentinel *Error, format string, args ...interface{}) *Error {
	return &Error{Kind: sentinel.Kind, Message: fmt.Sprintf(format, args...), Err: sentinel}
}

// NotFound / Conflict / BadRequest / Forbidden 快捷构造
func NotFound(message string) *Error   { return New(KindNotFound, message) }
func Conflict(message string) *Error   { return New(KindConflict, message) }
func BadRequest(message string) *Error { return New(KindBadRequest, message) }
func Forbidden(message string) *Error  { return New(KindForbidden, message) }

// KindOf 返回错误链上第一个业务错误的分类；非业务错误视为 KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf 返回面向调用方的错误消息；非业务错误返回空串
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = Conflict("Record was modified by another request, please reload and retry")
