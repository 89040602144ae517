package models

import "time"

// AccountProfile — вспомогательная запись профиля авторизованного пользователя
// в таблице profiles.
type AccountProfile struct {
	UserID    string
	Email     string
	Tier      string
	Role      *string
	Objective *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Credentials — пара логин/пароль демо-аккаунта.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
