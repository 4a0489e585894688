package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/backend"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/domain"
)

// maxUploadBytes multipart 请求在内存中保留的上限，超出部分写入临时文件
const maxUploadBytes = 32 << 20

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// readProductInput 读取商品表单：multipart 时变体为 JSON 字符串、图片在 images 或 files 字段；否则按 JSON 解析
func readProductInput(r *http.Request) (domain.ProductInput, error) {
	var in domain.ProductInput
	if !isMultipart(r) {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return in, fmt.Errorf("invalid request body: %w", err)
		}
		return in, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return in, fmt.Errorf("invalid multipart form: %w", err)
	}
	in.Name = r.FormValue("name")
	in.Description = r.FormValue("description")
	in.CategoryID = r.FormValue("categoryId")
	in.SubcategoryID = r.FormValue("subcategoryId")
	if v := r.FormValue("variants"); v != "" {
		if err := json.Unmarshal([]byte(v), &in.Variants); err != nil {
			return in, fmt.Errorf("invalid variants: %w", err)
		}
	}
	files, err := readFiles(r.MultipartForm, "images", "files")
	if err != nil {
		return in, err
	}
	in.Images = files
	return in, nil
}

// readVariantUpdate 读取变体表单
func readVariantUpdate(r *http.Request) (backend.VariantUpdate, error) {
	var out backend.VariantUpdate
	if !isMultipart(r) {
		if err := json.NewDecoder(r.Body).Decode(&out.Input); err != nil {
			return out, fmt.Errorf("invalid request body: %w", err)
		}
		return out, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return out, fmt.Errorf("invalid multipart form: %w", err)
	}
	in := &out.Input
	var err error
	if in.Price, err = strconv.ParseFloat(strings.TrimSpace(r.FormValue("price")), 64); err != nil {
		return out, fmt.Errorf("invalid price: %w", err)
	}
	if in.Stock, err = strconv.Atoi(strings.TrimSpace(r.FormValue("stock"))); err != nil {
		return out, fmt.Errorf("invalid stock: %w", err)
	}
	in.Storage = r.FormValue("storage")
	in.Color = r.FormValue("color")
	if v := r.FormValue("isActive"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return out, fmt.Errorf("invalid isActive: %w", err)
		}
		in.IsActive = &active
	}
	if out.Images, err = readFiles(r.MultipartForm, "images"); err != nil {
		return out, err
	}
	return out, nil
}

func readFiles(form *multipart.Form, fields ...string) ([]domain.File, error) {
	var out []domain.File
	for _, field := range fields {
		for _, fh := range form.File[field] {
			f, err := fh.Open()
			if err != nil {
				return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
			}
			data, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
			}
			out = append(out, domain.File{Name: fh.Filename, Content: data})
		}
	}
	return out, nil
}
