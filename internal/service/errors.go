package service

import (
	"errors"
	"net/http"
)

// ==================== 业务错误 ====================

// BizError 业务错误
// 携带对外稳定的错误码和 HTTP 状态，控制器据此组装响应
type BizError struct {
	Code    string // 稳定错误码，前端据此判断分支
	Message string
	Status  int
}

func (e *BizError) Error() string {
	return e.Message
}

// newBizError 创建业务错误
func newBizError(status int, code, message string) *BizError {
	return &BizError{Code: code, Message: message, Status: status}
}

// AsBizError 从错误链中提取业务错误
func AsBizError(err error) (*BizError, bool) {
	var be *BizError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// ==================== 通用错误构造 ====================

func errBadRequest(code, message string) *BizError {
	return newBizError(http.StatusBadRequest, code, message)
}

func errNotFound(code, message string) *BizError {
	return newBizError(http.StatusNotFound, code, message)
}

func errUnauthorized(code, message string) *BizError {
	return newBizError(http.StatusUnauthorized, code, message)
}

func errForbidden(code, message string) *BizError {
	return newBizError(http.StatusForbidden, code, message)
}

func errConflict(code, message string) *BizError {
	return newBizError(http.StatusConflict, code, message)
}

func errBadGateway(code, message string) *BizError {
	return newBizError(http.StatusBadGateway, code, message)
}
