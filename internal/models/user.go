package models

import "time"

// AdminUser, admin paneline giriş yapabilen kullanıcıyı temsil eder.
type AdminUser struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginForm is the admin login form.
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}
