package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 名称按去除首尾空白后的字符数判断，避免 "  a " 这类输入绕过长度限制
	_ = v.RegisterValidation("trimmed_min", func(fl validator.FieldLevel) bool {
		n := 0
		_, _ = fmt.Sscanf(fl.Param(), "%d", &n)
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
	})
	return v
}

// CategoryInput 新建/编辑分类表单
type CategoryInput struct {
	Name        string `json:"name" validate:"trimmed_min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// SubcategoryInput 新建/编辑子分类表单
type SubcategoryInput struct {
	Name        string `json:"name" validate:"trimmed_min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
	CategoryID  string `json:"categoryId" validate:"required"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// VariantInput 变体表单
type VariantInput struct {
	ID       string  `json:"_id,omitempty"`
	Price    float64 `json:"price" validate:"gt=0"`
	Stock    int     `json:"stock" validate:"gte=0"`
	Storage  string  `json:"storage"`
	Color    string  `json:"color"`
	IsActive *bool   `json:"isActive,omitempty"` // nil 表示不修改；新建时视为启用
}

// ActiveByDefault 返回副本，未指定 IsActive 的变体设为启用
func ActiveByDefault(variants []VariantInput) []VariantInput {
	out := make([]VariantInput, len(variants))
	for i, v := range variants {
		if v.IsActive == nil {
			on := true
			v.IsActive = &on
		}
		out[i] = v
	}
	return out
}

// ProductInput 新建/编辑商品表单，图片以文件形式随 multipart 提交
type ProductInput struct {
	Name          string         `json:"name" validate:"trimmed_min=2,max=200"`
	Description   string         `json:"description"`
	CategoryID    string         `json:"categoryId" validate:"required"`
	SubcategoryID string         `json:"subcategoryId"`
	Variants      []VariantInput `json:"variants" validate:"required,min=1,dive"`
	Images        []File         `json:"-"`
}

// File 待上传的文件
type File struct {
	Name    string
	Content []byte
}

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError 提交前的本地校验失败，不会发起任何网络请求
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// Validate 校验表单输入，失败时返回 *ValidationError
func Validate(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate input: %w", err)
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Namespace(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "trimmed_min":
		return fmt.Sprintf("%s phải có ít nhất %s ký tự", fe.Field(), fe.Param())
	case "required":
		return fmt.Sprintf("%s là bắt buộc", fe.Field())
	case "gt":
		return fmt.Sprintf("%s phải lớn hơn %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s không được âm", fe.Field())
	case "max":
		return fmt.Sprintf("%s tối đa %s ký tự", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s cần ít nhất %s phần tử", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s không hợp lệ", fe.Field())
}
