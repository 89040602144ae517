// Package billing отменяет подписки пользователя после проверки владения.
package billing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
	"github.com/magabrotheeeer/executive-coach/internal/models"
	"github.com/magabrotheeeer/executive-coach/internal/paymentprovider"
)

// Payments платёжный провайдер.
type Payments interface {
	FindCustomerByEmail(ctx context.Context, email string) (*paymentprovider.Customer, error)
	GetSubscription(ctx context.Context, id string) (*paymentprovider.Subscription, error)
	CancelSubscription(ctx context.Context, id string) (*paymentprovider.CanceledSubscription, error)
}

// Service управляет подписками.
type Service struct {
	payments Payments
	log      *slog.Logger
}

// New создаёт Service.
func New(payments Payments, log *slog.Logger) *Service {
	return &Service{payments: payments, log: log}
}

// Cancel отменяет подписку subscriptionID, если она принадлежит пользователю user.
//
// Подписка считается своей, когда её клиент совпадает с клиентом, найденным
// по email пользователя, и email этого клиента равен email пользователя.
func (s *Service) Cancel(ctx context.Context, user models.Identity, subscriptionID string) (*paymentprovider.CanceledSubscription, error) {
	const op = "services.billing.Cancel"
	if strings.TrimSpace(subscriptionID) == "" {
		return nil, apperr.InvalidInput("Subscription ID is required")
	}
	if user.Email == "" {
		return nil, apperr.Auth("User email not available")
	}

	customer, err := s.payments.FindCustomerByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if customer == nil {
		return nil, apperr.Forbidden("No customer found for this user")
	}

	sub, err := s.payments.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if sub.Customer.ID != customer.ID || !strings.EqualFold(sub.Customer.Email, user.Email) {
		s.log.Warn("subscription ownership mismatch",
			slog.String("user_id", user.ID),
			slog.String("subscription_id", subscriptionID),
		)
		return nil, apperr.Forbidden("Subscription does not belong to this user")
	}

	canceled, err := s.payments.CancelSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("subscription canceled",
		slog.String("user_id", user.ID),
		slog.String("subscription_id", canceled.ID),
		slog.String("status", canceled.Status),
	)
	return canceled, nil
}
