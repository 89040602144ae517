// Package models содержит доменную модель пользователя коучингового сервиса:
// идентичность (гость или авторизованный), профиль, окно пробного периода
// и курсор уведомлений. Структуры используются в бизнес‑логике и при сериализации
// гостевой сессии в хранилище.
package models

import "time"

// IdentityKind различает гостя и авторизованного пользователя.
type IdentityKind string

const (
	// KindGuest — посетитель без входа, известен только по сгенерированному id.
	KindGuest IdentityKind = "guest"
	// KindAuthenticated — пользователь, вошедший через провайдер идентичности.
	KindAuthenticated IdentityKind = "authenticated"
)

// Identity — текущая идентичность сессии.
type Identity struct {
	Kind  IdentityKind `json:"kind"`
	ID    string       `json:"id"`
	Email string       `json:"email,omitempty"`
	// IsDemo выставляется для общего аккаунта ревьюеров магазинов приложений.
	IsDemo bool `json:"is_demo,omitempty"`
}

// IsGuest сообщает, является ли идентичность гостевой.
func (i Identity) IsGuest() bool { return i.Kind == KindGuest }

// IsAuthenticated сообщает, прошёл ли пользователь вход.
func (i Identity) IsAuthenticated() bool { return i.Kind == KindAuthenticated }

// Profile — необязательные поля профиля, собираемые при онбординге.
type Profile struct {
	Tier      *string `json:"tier,omitempty"`
	Role      *string `json:"role,omitempty"`
	Objective *string `json:"objective,omitempty"`
}

// ProfilePatch — частичное обновление профиля. Nil-поля не трогаются.
type ProfilePatch struct {
	Tier      *string `json:"tier,omitempty"`
	Role      *string `json:"role,omitempty"`
	Objective *string `json:"objective,omitempty"`
}

// Merge возвращает профиль с применённым патчем.
func (p Profile) Merge(patch ProfilePatch) Profile {
	if patch.Tier != nil {
		p.Tier = patch.Tier
	}
	if patch.Role != nil {
		p.Role = patch.Role
	}
	if patch.Objective != nil {
		p.Objective = patch.Objective
	}
	return p
}

// TrialWindow — начало пробного периода. Устанавливается не больше одного раза
// на гостевую идентичность и не меняется до выхода.
type TrialWindow struct {
	Start time.Time `json:"start"`
}

// NotificationCursor запоминает уже показанные уведомления пробного периода.
type NotificationCursor struct {
	LastNotifiedDay *int `json:"last_notified_day,omitempty"`
	WelcomeShown    bool `json:"welcome_shown"`
}

// UserProfile — полное состояние сессии, которое зеркалируется в хранилище для гостей.
type UserProfile struct {
	Identity Identity           `json:"identity"`
	Profile  Profile            `json:"profile"`
	Trial    *TrialWindow       `json:"trial,omitempty"`
	Cursor   NotificationCursor `json:"cursor"`
	// KeyHash — bcrypt-хеш ключа гостевой сессии.
	KeyHash string `json:"key_hash,omitempty"`
}
