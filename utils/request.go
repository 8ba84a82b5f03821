package utils

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Fields 请求体的顶层字段，值保留原始JSON以便逐项校验
type Fields map[string]json.RawMessage

// ParseFields 解析请求体，请求体必须是JSON对象
func ParseFields(body []byte) (Fields, bool) {
	var fields Fields
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

// raw 返回字段原始值，null等同于类型错误
func (f Fields) raw(name string) (json.RawMessage, bool) {
	v, ok := f[name]
	return v, ok
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// String 读取字符串字段，返回值依次为：值、字段是否存在、类型是否正确
func (f Fields) String(name string) (string, bool, bool) {
	v, ok := f.raw(name)
	if !ok {
		return "", false, false
	}
	var s string
	if isNull(v) || json.Unmarshal(v, &s) != nil {
		return "", true, false
	}
	return s, true, true
}

// Strings 读取字符串数组字段
func (f Fields) Strings(name string) ([]string, bool, bool) {
	v, ok := f.raw(name)
	if !ok {
		return nil, false, false
	}
	var items []json.RawMessage
	if isNull(v) || json.Unmarshal(v, &items) != nil {
		return nil, true, false
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if isNull(item) || json.Unmarshal(item, &s) != nil {
			return nil, true, false
		}
		result = append(result, s)
	}
	return result, true, true
}

// Number 读取数值字段
func (f Fields) Number(name string) (float64, bool, bool) {
	v, ok := f.raw(name)
	if !ok {
		return 0, false, false
	}
	var n float64
	if isNull(v) || json.Unmarshal(v, &n) != nil {
		return 0, true, false
	}
	return n, true, true
}

// IDs 读取整数ID数组，元素可以是数字或数字字符串
func (f Fields) IDs(name string) ([]int64, bool, bool) {
	v, ok := f.raw(name)
	if !ok {
		return nil, false, false
	}
	var items []json.RawMessage
	if isNull(v) || json.Unmarshal(v, &items) != nil {
		return nil, true, false
	}
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		id, ok := parseID(item)
		if !ok {
			return nil, true, false
		}
		ids = append(ids, id)
	}
	return ids, true, true
}

func parseID(item json.RawMessage) (int64, bool) {
	var id int64
	if err := json.Unmarshal(item, &id); err == nil && !isNull(item) {
		return id, true
	}
	var s string
	if err := json.Unmarshal(item, &s); err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
