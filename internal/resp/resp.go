// Package resp 定义统一的 HTTP JSON 响应结构与业务错误码。
package resp

import (
	"bytes"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// 业务错误码
const (
	CodeOK              = 0
	CodeInvalidParam    = 10001
	CodeNotFound        = 10004
	CodeConflict        = 10009
	CodeConfirmRequired = 10028
	CodeTooManyRequests = 10029
	CodeUpstream        = 20002
	CodeInternalError   = 50000
	CodeTimeout         = 50004
)

// Body 统一响应体
type Body struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
}

// OK 写入成功响应
func OK(w http.ResponseWriter, data any, reqID, traceID string) {
	write(w, http.StatusOK, Body{Code: CodeOK, Message: "ok", Data: data, RequestID: reqID, TraceID: traceID})
}

// Created 写入新建成功响应
func Created(w http.ResponseWriter, data any, reqID, traceID string) {
	write(w, http.StatusCreated, Body{Code: CodeOK, Message: "created", Data: data, RequestID: reqID, TraceID: traceID})
}

// Error 写入错误响应
func Error(w http.ResponseWriter, status, code int, msg, reqID, traceID string) {
	write(w, status, Body{Code: code, Message: msg, RequestID: reqID, TraceID: traceID})
}

// ErrorWithData 写入携带附加数据的错误响应（如字段校验信息、确认提示）
func ErrorWithData(w http.ResponseWriter, status, code int, msg string, data any, reqID, traceID string) {
	write(w, status, Body{Code: code, Message: msg, Data: data, RequestID: reqID, TraceID: traceID})
}

// HTTPStatusFromCode 根据业务码推导 HTTP 状态码
func HTTPStatusFromCode(code int) int {
	switch code {
	case CodeOK:
		return http.StatusOK
	case CodeInvalidParam:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeConfirmRequired:
		return http.StatusPreconditionRequired
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeUpstream:
		return http.StatusBadGateway
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// write 先编码再写状态码，编码失败时改为 500，不会留下空的 200 响应
func write(w http.ResponseWriter, status int, body Body) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		zap.L().Error("encode response failed",
			zap.String("request_id", body.RequestID),
			zap.Int("status", status),
			zap.Error(err),
		)
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(Body{
			Code:      CodeInternalError,
			Message:   "encode response failed",
			RequestID: body.RequestID,
			TraceID:   body.TraceID,
		})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
