package models

import "time"

// NoticeKind — вид уведомления пробного периода.
type NoticeKind string

const (
	NoticeWelcome  NoticeKind = "welcome"
	NoticeDayTwo   NoticeKind = "day_2_reminder"
	NoticeFinalDay NoticeKind = "final_day_warning"
)

// Notice — уведомление для показа пользователю и публикации в очередь.
type Notice struct {
	Kind          NoticeKind `json:"kind"`
	GuestID       string     `json:"guest_id"`
	DaysRemaining int        `json:"days_remaining"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	CreatedAt     time.Time  `json:"created_at"`
}
