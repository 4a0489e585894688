package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Envelope 后端成功响应的通用结构 {success, message, data}
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// HasData 响应是否携带 data
func (e *Envelope) HasData() bool {
	d := bytes.TrimSpace(e.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

// Decode 把 data 解码到 out；没有 data 时返回 false
func (e *Envelope) Decode(out any) (bool, error) {
	if !e.HasData() {
		return false, nil
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return false, fmt.Errorf("decode response data: %w", err)
	}
	return true, nil
}

// parseEnvelope 宽松解析成功响应：空响应体得到空 Envelope，非 JSON 响应体作为 Message，
// 不含 success/message/data 任一字段的 JSON 整体作为 Data
func parseEnvelope(body []byte) *Envelope {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return &Envelope{}
	}
	if !json.Valid(body) {
		return &Envelope{Message: string(body)}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		// 数组或标量
		return &Envelope{Data: json.RawMessage(body)}
	}
	_, hasSuccess := fields["success"]
	_, hasMessage := fields["message"]
	_, hasData := fields["data"]
	if !hasSuccess && !hasMessage && !hasData {
		return &Envelope{Data: json.RawMessage(body)}
	}

	env := &Envelope{Data: fields["data"]}
	_ = json.Unmarshal(fields["success"], &env.Success)
	_ = json.Unmarshal(fields["message"], &env.Message)
	return env
}

// decodeList 解码列表响应，兼容以下形式：
//
//	[...]
//	{"data": [...]}
//	{"data": {"orders": [...], "total": 10}}
func decodeList[T any](body []byte) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []T{}, nil
	}

	var items []T
	if body[0] == '[' {
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return items, nil
	}

	env := parseEnvelope(body)
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []T{}, nil
	}
	if data[0] == '[' {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decode list data: %w", err)
		}
		return items, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("decode list data: %w", err)
	}
	for _, key := range listKeys(wrapper) {
		raw := bytes.TrimSpace(wrapper[key])
		if len(raw) == 0 || raw[0] != '[' {
			continue
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode list data: %w", err)
		}
		return items, nil
	}
	return nil, fmt.Errorf("decode list: no array in response data")
}

// knownListKeys data 对象中列表字段的优先顺序
var knownListKeys = []string{"orders", "products", "categories", "subcategories", "items"}

// listKeys 先按 knownListKeys 顺序，其余字段按字典序，保证多个数组字段时结果稳定
func listKeys(wrapper map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(wrapper))
	for _, k := range knownListKeys {
		if _, ok := wrapper[k]; ok {
			keys = append(keys, k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(wrapper)) {
		if !slices.Contains(knownListKeys, k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// decodeOne 解码单条记录，兼容裸对象与 {"data": {...}}
func decodeOne[T any](body []byte) (T, error) {
	var out T
	env := parseEnvelope(body)
	if !env.HasData() {
		return out, fmt.Errorf("decode record: empty response")
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("decode record: %w", err)
	}
	return out, nil
}
