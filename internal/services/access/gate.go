// Package access принимает решения о доступе к функциям сервиса на основе
// идентичности и пробного периода.
//
// Состояния: TrialActive, TrialExpired, Authenticated. Авторизация всегда
// имеет приоритет над устаревшим окном пробного периода.
package access

import (
	"time"

	"github.com/magabrotheeeer/executive-coach/internal/lib/trial"
	"github.com/magabrotheeeer/executive-coach/internal/models"
)

// State состояние доступа.
type State string

const (
	StateTrialActive   State = "trial_active"
	StateTrialExpired  State = "trial_expired"
	StateAuthenticated State = "authenticated"
)

// Decision производные решения, которые видит клиент.
type Decision struct {
	State              State `json:"state"`
	Expired            bool  `json:"expired"`
	DaysRemaining      *int  `json:"days_remaining,omitempty"`
	RequiresOnboarding bool  `json:"requires_onboarding"`
	DemoMode           bool  `json:"demo_mode"`
}

// StateOf возвращает состояние доступа для профиля p на момент now.
// Гость без окна пробного периода считается в активном пробном периоде:
// окно ещё не установлено.
func StateOf(p models.UserProfile, now time.Time) State {
	if p.Identity.IsAuthenticated() {
		return StateAuthenticated
	}
	if p.Trial == nil {
		return StateTrialActive
	}
	if trial.DaysRemaining(now, p.Trial.Start) == 0 {
		return StateTrialExpired
	}
	return StateTrialActive
}

// IsExpired сообщает, нужно ли блокировать функции и показывать диалог истечения.
func IsExpired(p models.UserProfile, now time.Time) bool {
	return StateOf(p, now) == StateTrialExpired
}

// DaysRemaining возвращает остаток пробного периода гостя. Для авторизованных
// пользователей и гостей без окна возвращается false.
func DaysRemaining(p models.UserProfile, now time.Time) (int, bool) {
	if !p.Identity.IsGuest() || p.Trial == nil {
		return 0, false
	}
	return trial.DaysRemaining(now, p.Trial.Start), true
}

// RequiresOnboarding сообщает, что у пользователя не заполнены роль или цель.
// Демо-аккаунт онбординг не проходит.
func RequiresOnboarding(p models.UserProfile) bool {
	if IsDemoMode(p) {
		return false
	}
	return empty(p.Profile.Role) || empty(p.Profile.Objective)
}

// IsDemoMode сообщает, что сессия принадлежит демо-аккаунту ревьюеров.
func IsDemoMode(p models.UserProfile) bool {
	return p.Identity.IsAuthenticated() && p.Identity.IsDemo
}

// Evaluate собирает все решения для профиля.
func Evaluate(p models.UserProfile, now time.Time) Decision {
	d := Decision{
		State:              StateOf(p, now),
		RequiresOnboarding: RequiresOnboarding(p),
		DemoMode:           IsDemoMode(p),
	}
	d.Expired = d.State == StateTrialExpired
	if days, ok := DaysRemaining(p, now); ok {
		d.DaysRemaining = &days
	}
	return d
}

func empty(s *string) bool {
	return s == nil || *s == ""
}
