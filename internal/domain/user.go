package domain

// UserRole 定义用户角色类型
type UserRole string

const (
	UserRoleUser  UserRole = "user"  // 普通用户
	UserRoleAdmin UserRole = "admin" // 管理员
)

// AdminUser 当前登录的后台用户，来自会话存储中的 adminUser 或令牌载荷
type AdminUser struct {
	ID    string   `json:"_id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// IsAdmin 判断用户是否为管理员
func (u *AdminUser) IsAdmin() bool {
	return u != nil && u.Role == UserRoleAdmin
}

// DisplayName 优先使用姓名，其次邮箱
func (u *AdminUser) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
