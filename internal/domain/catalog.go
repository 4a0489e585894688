package domain

// Category 后端返回的分类记录
type Category struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    Flag      `json:"isActive"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

// Subcategory 后端返回的子分类记录
type Subcategory struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CategoryID  string    `json:"categoryId"`
	IsActive    Flag      `json:"isActive"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

// Product 后端返回的商品记录，价格库存等挂在各个变体上
type Product struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	CategoryID    string    `json:"categoryId"`
	SubcategoryID string    `json:"subcategoryId"`
	Variants      []Variant `json:"variants"`
	CreatedAt     Timestamp `json:"createdAt"`
	UpdatedAt     Timestamp `json:"updatedAt"`
}

// Variant 商品变体（存储容量/颜色组合）
type Variant struct {
	ID       string   `json:"_id"`
	Price    Number   `json:"price"`
	Stock    Number   `json:"stock"`
	Storage  string   `json:"storage"`
	Color    string   `json:"color"`
	Images   []string `json:"images"`
	IsActive Flag     `json:"isActive"`
}

// CategoryRow 分类列表视图行
type CategoryRow struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

// SubcategoryRow 子分类列表视图行，CategoryName 为按 ID 关联出的展示字段
type SubcategoryRow struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CategoryID   string    `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	Active       bool      `json:"active"`
	CreatedAt    Timestamp `json:"createdAt"`
	UpdatedAt    Timestamp `json:"updatedAt"`
}

// VariantRow 商品列表的一行：商品公共字段 + 单个变体字段。ID 是变体 ID，ProductID 是父商品 ID
type VariantRow struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"productId"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	CategoryID      string    `json:"categoryId"`
	CategoryName    string    `json:"categoryName"`
	SubcategoryID   string    `json:"subcategoryId"`
	SubcategoryName string    `json:"subcategoryName"`
	Price           float64   `json:"price"`
	Stock           int       `json:"stock"`
	Storage         string    `json:"storage"`
	Color           string    `json:"color"`
	Images          []string  `json:"images"`
	Active          bool      `json:"active"`
	CreatedAt       Timestamp `json:"createdAt"`
	UpdatedAt       Timestamp `json:"updatedAt"`
}
