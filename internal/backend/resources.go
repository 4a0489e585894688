package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/domain"
)

// decodeRecord 从变更响应中取出记录。请求已经成功，data 缺失或形状不符时返回 nil 而不是错误，由调用方决定是否重新拉取
func decodeRecord[T any](env *Envelope) (*T, error) {
	var out T
	if ok, err := env.Decode(&out); err != nil || !ok {
		return nil, nil
	}
	return &out, nil
}

// activeFromEnvelope 读取切换状态接口返回的 isActive，响应未携带时返回 nil
func activeFromEnvelope(env *Envelope) *bool {
	if !env.HasData() {
		return nil
	}
	var state struct {
		IsActive *domain.Flag `json:"isActive"`
	}
	if err := json.Unmarshal(env.Data, &state); err != nil || state.IsActive == nil {
		return nil
	}
	v := state.IsActive.Bool()
	return &v
}

func escape(id string) string { return url.PathEscape(id) }

// Categories 分类接口
type Categories struct{ c *Client }

// Categories 返回分类接口
func (c *Client) Categories() Categories { return Categories{c} }

func (r Categories) List(ctx context.Context) ([]domain.Category, error) {
	body, err := r.c.get(ctx, "/api/categories")
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Category](body)
}

func (r Categories) Get(ctx context.Context, id string) (domain.Category, error) {
	body, err := r.c.get(ctx, "/api/categories/"+escape(id))
	if err != nil {
		return domain.Category{}, err
	}
	return decodeOne[domain.Category](body)
}

func (r Categories) Create(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	env, err := r.c.Send(ctx, http.MethodPost, "/api/categories", in)
	if err != nil {
		return nil, err
	}
	return decodeRecord[domain.Category](env)
}

func (r Categories) Update(ctx context.Context, id string, in domain.CategoryInput) (*domain.Category, error) {
	env, err := r.c.Send(ctx, http.MethodPut, "/api/categories/"+escape(id), in)
	if err != nil {
		return nil, err
	}
	return decodeRecord[domain.Category](env)
}

// Toggle 切换启用状态，返回服务端给出的新状态（可能为 nil）
func (r Categories) Toggle(ctx context.Context, id string) (*bool, error) {
	env, err := r.c.Send(ctx, http.MethodPatch, "/api/categories/"+escape(id)+"/toggle-status", nil)
	if err != nil {
		return nil, err
	}
	return activeFromEnvelope(env), nil
}

func (r Categories) Delete(ctx context.Context, id string) error {
	_, err := r.c.Send(ctx, http.MethodDelete, "/api/categories/"+escape(id), nil)
	return err
}

// Subcategories 子分类接口
type Subcategories struct{ c *Client }

// Subcategories 返回子分类接口
func (c *Client) Subcategories() Subcategories { return Subcategories{c} }

func (r Subcategories) List(ctx context.Context) ([]domain.Subcategory, error) {
	body, err := r.c.get(ctx, "/api/subcategories")
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Subcategory](body)
}

// ListByCategory 只列出某分类下的子分类
func (r Subcategories) ListByCategory(ctx context.Context, categoryID string) ([]domain.Subcategory, error) {
	body, err := r.c.get(ctx, "/api/subcategories/category/"+escape(categoryID))
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Subcategory](body)
}

func (r Subcategories) Get(ctx context.Context, id string) (domain.Subcategory, error) {
	body, err := r.c.get(ctx, "/api/subcategories/"+escape(id))
	if err != nil {
		return domain.Subcategory{}, err
	}
	return decodeOne[domain.Subcategory](body)
}

func (r Subcategories) Create(ctx context.Context, in domain.SubcategoryInput) (*domain.Subcategory, error) {
	env, err := r.c.Send(ctx, http.MethodPost, "/api/subcategories", in)
	if err != nil {
		return nil, err
	}
	return decodeRecord[domain.Subcategory](env)
}

func (r Subcategories) Update(ctx context.Context, id string, in domain.SubcategoryInput) (*domain.Subcategory, error) {
	env, err := r.c.Send(ctx, http.MethodPut, "/api/subcategories/"+escape(id), in)
	if err != nil {
		return nil, err
	}
	return decodeRecord[domain.Subcategory](env)
}

func (r Subcategories) Toggle(ctx context.Context, id string) (*bool, error) {
	env, err := r.c.Send(ctx, http.MethodPatch, "/api/subcategories/"+escape(id)+"/toggle-status", nil)
	if err != nil {
		return nil, err
	}
	return activeFromEnvelope(env), nil
}

func (r Subcategories) Delete(ctx context.Context, id string) error {
	_, err := r.c.Send(ctx, http.MethodDelete, "/api/subcategories/"+escape(id), nil)
	return err
}

// Products 商品接口
type Products struct{ c *Client }

// Products 返回商品接口
func (c *Client) Products() Products { return Products{c} }

func (r Products) List(ctx context.Context) ([]domain.Product, error) {
	body, err := r.c.get(ctx, "/api/products")
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Product](body)
}

func (r Products) Get(ctx context.Context, id string) (domain.Product, error) {
	body, err := r.c.get(ctx, "/api/products/"+escape(id))
	if err != nil {
		return domain.Product{}, err
	}
	return decodeOne[domain.Product](body)
}

// ProductForm 把商品表单编码为 multipart，fileField 为图片字段名（新建 images，编辑 files）
func ProductForm(in domain.ProductInput, fileField string) (*Form, error) {
	variants, err := json.Marshal(in.Variants)
	if err != nil {
		return nil, fmt.Errorf("encode variants: %w", err)
	}
	f := NewForm().
		Set("name", in.Name).
		Set("description", in.Description).
		Set("categoryId", in.CategoryID).
		Set("subcategoryId", in.SubcategoryID).
		Set("variants", string(variants))
	for _, img := range in.Images {
		f.AddFile(fileField, img.Name, img.Content)
	}
	return f, nil
}

// Create 新建商品，未指定启用状态的变体按启用提交
func (r Products) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	in.Variants = domain.ActiveByDefault(in.Variants)
	form, err := ProductForm(in, "images")
	if err != nil {
		return nil, err
	}
	env, err := r.c.SendMultipart(ctx, http.MethodPost, "/api/products", form)
	if err != nil {
		return nil, err
	}
	return decodeRecord[domain.Product](env)
}

func (r Products) Update(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	form, err := ProductForm(in, "files")
	if err != nil {
		return nil, err
	}
	env, err := r.c.SendMultipart(ctx, http.MethodPut, "/api/products/"+escape(id), form)
	if err != nil {
		return nil, err
	}
	return decodeRecord[domain.Product](env)
}

func (r Products) Delete(ctx context.Context, id string) error {
	_, err := r.c.Send(ctx, http.MethodDelete, "/api/products/"+escape(id), nil)
	return err
}

// Variants 商品变体接口
type Variants struct{ c *Client }

// Variants 返回变体接口
func (c *Client) Variants() Variants { return Variants{c} }

func (r Variants) Get(ctx context.Context, variantID string) (domain.Variant, error) {
	body, err := r.c.get(ctx, "/api/products/variants/"+escape(variantID))
	if err != nil {
		return domain.Variant{}, err
	}
	return decodeOne[domain.Variant](body)
}

// VariantUpdate 变体编辑表单，新图片挂在 images 字段下
type VariantUpdate struct {
	Input  domain.VariantInput
	Images []domain.File
}

func (r Variants) Update(ctx context.Context, variantID string, in VariantUpdate) (*domain.Variant, error) {
	f := NewForm().
		SetFloat("price", in.Input.Price).
		SetInt("stock", in.Input.Stock).
		Set("storage", in.Input.Storage).
		Set("color", in.Input.Color)
	if in.Input.IsActive != nil {
		f.SetBool("isActive", *in.Input.IsActive)
	}
	for _, img := range in.Images {
		f.AddFile("images", img.Name, img.Content)
	}
	env, err := r.c.SendMultipart(ctx, http.MethodPatch, "/api/products/variants/"+escape(variantID), f)
	if err != nil {
		return nil, err
	}
	return decodeRecord[domain.Variant](env)
}

func (r Variants) Toggle(ctx context.Context, variantID string) (*bool, error) {
	env, err := r.c.Send(ctx, http.MethodPatch, "/api/products/variants/"+escape(variantID)+"/toggle", nil)
	if err != nil {
		return nil, err
	}
	return activeFromEnvelope(env), nil
}

// Orders 订单管理接口
type Orders struct{ c *Client }

// Orders 返回订单接口
func (c *Client) Orders() Orders { return Orders{c} }

func (r Orders) List(ctx context.Context) ([]domain.Order, error) {
	body, err := r.c.get(ctx, "/api/orders/admin/all")
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Order](body)
}

// UpdateStatus 提交订单状态流转
func (r Orders) UpdateStatus(ctx context.Context, id string, u domain.OrderStatusUpdate) (*domain.Order, error) {
	env, err := r.c.Send(ctx, http.MethodPatch, "/api/orders/admin/"+escape(id), u)
	if err != nil {
		return nil, err
	}
	return decodeRecord[domain.Order](env)
}
