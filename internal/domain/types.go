// Package domain 定义后端原始记录、列表视图行以及表单输入等领域模型。
package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Flag 宽松布尔值：后端有时返回 true，有时返回字符串 "true"。
// 只有 true 与 "true" 解析为真，其余（false、"false"、null、缺失、其它字符串）均为假。
type Flag bool

// UnmarshalJSON 实现 json.Unmarshaler
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		*f = true
	case bytes.Equal(data, []byte(`"true"`)):
		*f = true
	default:
		*f = false
	}
	return nil
}

// Bool 返回原生布尔值
func (f Flag) Bool() bool { return bool(f) }

// Number 宽松数值：同时接受 JSON 数字与数字字符串，无法解析或非有限值（NaN、Inf）时为 0
type Number float64

// UnmarshalJSON 实现 json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	s := string(data)
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*n = 0
			return nil
		}
		s = strings.TrimSpace(str)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*n = 0
		return nil
	}
	*n = Number(v)
	return nil
}

// Float 返回 float64
func (n Number) Float() float64 { return float64(n) }

// Int 返回截断后的整数
func (n Number) Int() int { return int(n) }

// Timestamp ISO-8601 时间戳，空串或非法格式解析为零值而不是报错
type Timestamp struct {
	time.Time
}

// UnmarshalJSON 实现 json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		t.Time = time.Time{}
		return nil
	}
	t.Time = parsed
	return nil
}

// MarshalJSON 零值输出 null
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
