package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind 后端错误分类
type Kind string

const (
	KindGeneric          Kind = "generic"
	KindConflictChildren Kind = "conflict-children" // 仍有子分类，不能删除
	KindConflictProducts Kind = "conflict-products" // 仍有商品，不能删除
	KindNetwork          Kind = "network"           // 请求未得到任何响应
)

// APIError 后端调用失败。Message 原样来自后端，可直接展示给用户
type APIError struct {
	Status  int    `json:"status"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	cause   error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.cause }

// IsDomainConstraint 是否为业务约束冲突（删除有依赖的记录等）
func (e *APIError) IsDomainConstraint() bool {
	return e.Kind == KindConflictChildren || e.Kind == KindConflictProducts
}

// kindRule 错误消息片段到分类的映射，按顺序匹配，忽略大小写
type kindRule struct {
	phrase string
	kind   Kind
}

var kindRules = []kindRule{
	{"danh mục con", KindConflictChildren},
	{"subcategor", KindConflictChildren},
	{"sản phẩm", KindConflictProducts},
}

// Classify 根据消息内容判断错误分类
func Classify(message string) Kind {
	msg := strings.ToLower(message)
	for _, r := range kindRules {
		if strings.Contains(msg, r.phrase) {
			return r.kind
		}
	}
	return KindGeneric
}

// ParseAPIError 把失败响应转换为 *APIError。
// 消息优先取 JSON 的 message，其次 error；非 JSON 响应体使用原文；都没有时为 "HTTP <status>: <statusText>"
func ParseAPIError(status int, statusText string, body []byte) *APIError {
	msg := messageFromBody(body)
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d: %s", status, statusText)
	}
	return &APIError{Status: status, Kind: Classify(msg), Message: msg}
}

func messageFromBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		// 合法 JSON 但不是对象（数组、字符串等）时不使用原文
		if json.Valid(body) {
			return ""
		}
		return text
	}
	for _, key := range []string{"message", "error"} {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// networkError 请求未得到响应
func networkError(err error) *APIError {
	return &APIError{
		Kind:    KindNetwork,
		Message: fmt.Sprintf("không thể kết nối tới máy chủ: %v", err),
		cause:   err,
	}
}

// AsAPIError 从错误链中取出 *APIError
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsDomainConstraint 判断错误链中是否包含业务约束冲突
func IsDomainConstraint(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsDomainConstraint()
}
