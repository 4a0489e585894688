package backend

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
)

// Form multipart 表单：标量字段按字符串追加，文件挂在指定字段下
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field, name string
	content     []byte
}

// NewForm 创建空表单
func NewForm() *Form { return &Form{} }

// Set 追加字符串字段
func (f *Form) Set(name, value string) *Form {
	f.fields = append(f.fields, formField{name, value})
	return f
}

// SetBool 追加布尔字段，取值 "true"/"false"
func (f *Form) SetBool(name string, v bool) *Form {
	return f.Set(name, strconv.FormatBool(v))
}

// SetFloat 追加数值字段
func (f *Form) SetFloat(name string, v float64) *Form {
	return f.Set(name, strconv.FormatFloat(v, 'f', -1, 64))
}

// SetInt 追加整数字段
func (f *Form) SetInt(name string, v int) *Form {
	return f.Set(name, strconv.Itoa(v))
}

// AddFile 在 field 下追加一个文件
func (f *Form) AddFile(field, filename string, content []byte) *Form {
	f.files = append(f.files, formFile{field, filename, content})
	return f
}

// Fields 返回已追加的字段名与值，按追加顺序
func (f *Form) Fields() [][2]string {
	out := make([][2]string, 0, len(f.fields))
	for _, fd := range f.fields {
		out = append(out, [2]string{fd.name, fd.value})
	}
	return out
}

// Encode 编码为请求体，返回 reader 与带 boundary 的 Content-Type
func (f *Form) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, fd := range f.fields {
		if err := w.WriteField(fd.name, fd.value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", fd.name, err)
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.name)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %s: %w", file.field, err)
		}
		if _, err := part.Write(file.content); err != nil {
			return nil, "", fmt.Errorf("write form file %s: %w", file.field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
