// Package notice выпускает одноразовые уведомления пробного периода:
// приветствие и напоминания за два дня и в последний день.
//
// Повторный показ исключается курсором, который сохраняется вместе с гостевой сессией.
package notice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/executive-coach/internal/lib/sl"
	"github.com/magabrotheeeer/executive-coach/internal/lib/trial"
	"github.com/magabrotheeeer/executive-coach/internal/models"
	"github.com/magabrotheeeer/executive-coach/internal/services/session"
)

// Publisher отправляет уведомления потребителям вне процесса.
type Publisher interface {
	Publish(ctx context.Context, n models.Notice) error
}

// CursorSaver сохраняет курсор уведомлений сессии.
type CursorSaver interface {
	SaveCursor(ctx context.Context, s *session.Session)
}

// NopPublisher не публикует ничего. Используется, когда брокер не настроен.
type NopPublisher struct{}

// Publish ничего не делает.
func (NopPublisher) Publish(context.Context, models.Notice) error { return nil }

// Scheduler решает, какие уведомления пора показать.
type Scheduler struct {
	store     CursorSaver
	publisher Publisher
	log       *slog.Logger
}

// NewScheduler создает новый экземпляр Scheduler.
func NewScheduler(store CursorSaver, publisher Publisher, log *slog.Logger) *Scheduler {
	return &Scheduler{
		store:     store,
		publisher: publisher,
		log:       log,
	}
}

// Due возвращает уведомления, которые нужно показать сейчас, в порядке показа,
// и отмечает их в курсоре. Для авторизованных пользователей и гостей без
// окна пробного периода уведомлений нет.
func (s *Scheduler) Due(ctx context.Context, sess *session.Session, now time.Time) []models.Notice {
	if !sess.Identity.IsGuest() || sess.Trial == nil {
		return nil
	}
	days := trial.DaysRemaining(now, sess.Trial.Start)
	guestID := sess.Identity.ID

	var due []models.Notice
	if !sess.Cursor.WelcomeShown && days > 0 {
		sess.Cursor.WelcomeShown = true
		due = append(due, build(models.NoticeWelcome, guestID, days, now))
	}

	if (days == 2 || days == 1) && notNotified(sess.Cursor, days) {
		d := days
		sess.Cursor.LastNotifiedDay = &d
		kind := models.NoticeDayTwo
		if days == 1 {
			kind = models.NoticeFinalDay
		}
		due = append(due, build(kind, guestID, days, now))
	}

	if len(due) == 0 {
		return nil
	}

	s.store.SaveCursor(ctx, sess)
	for _, n := range due {
		if err := s.publisher.Publish(ctx, n); err != nil {
			s.log.Error("failed to publish notice", sl.Guest(guestID), slog.String("kind", string(n.Kind)), sl.Err(err))
		}
	}
	s.log.Info("trial notices fired", sl.Guest(guestID), slog.Int("count", len(due)), slog.Int("days_remaining", days))
	return due
}

// notNotified сообщает, что порог days ещё не показывался. Курсор монотонно убывает.
func notNotified(c models.NotificationCursor, days int) bool {
	return c.LastNotifiedDay == nil || days < *c.LastNotifiedDay
}

func build(kind models.NoticeKind, guestID string, days int, now time.Time) models.Notice {
	n := models.Notice{
		Kind:          kind,
		GuestID:       guestID,
		DaysRemaining: days,
		CreatedAt:     now.UTC(),
	}
	switch kind {
	case models.NoticeWelcome:
		n.Title = "Welcome to your free trial"
		n.Message = fmt.Sprintf("You have %d %s of full access to your executive coach.", days, dayWord(days))
	case models.NoticeDayTwo:
		n.Title = "2 days left in your trial"
		n.Message = "Upgrade to keep your strategy sessions and voice coaching."
	case models.NoticeFinalDay:
		n.Title = "Last day of your trial"
		n.Message = "Your free access ends in less than 24 hours. Subscribe to keep going."
	}
	return n
}

func dayWord(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}
