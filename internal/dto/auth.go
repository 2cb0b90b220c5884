package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求；login_id 可为 user_id、email_id 或 phone_number
type LoginRequest struct {
	LoginID  string `json:"login_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录成功响应（扁平结构，前端直接读取顶层字段）
type LoginResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	RoleID  int    `json:"role_id"`
	Token   string `json:"token"`
}

// CurrentUser 当前用户信息
type CurrentUser struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	EmailID     string `json:"email_id"`
	PhoneNumber string `json:"phone_number"`
	RoleName    string `json:"role_name"`
	Role        string `json:"role"`
	RoleID      int    `json:"role_id"`
}

// CurrentUserResponse GET /auth/me
type CurrentUserResponse struct {
	User                CurrentUser       `json:"user"`
	AccessibleLocations []LocationSummary `json:"accessibleLocations"`
}
