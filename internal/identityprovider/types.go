package identityprovider

// User пользователь Supabase Auth.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// UserList ответ admin API на список пользователей.
type UserList struct {
	Users []User `json:"users"`
}

// CreateUserRequest запрос на создание пользователя через admin API.
type CreateUserRequest struct {
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	EmailConfirm bool           `json:"email_confirm"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}
