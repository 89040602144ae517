package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/executive-coach/internal/models"
)

// Channel — часть *amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// NoticePublisher публикует уведомления пробного периода в обменник уведомлений.
type NoticePublisher struct {
	ch Channel
}

// NewNoticePublisher создаёт NoticePublisher поверх канала ch.
func NewNoticePublisher(ch Channel) *NoticePublisher {
	return &NoticePublisher{ch: ch}
}

// Publish отправляет уведомление с ключом маршрутизации trial.
func (p *NoticePublisher) Publish(ctx context.Context, n models.Notice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return PublishMessage(p.ch, Exchange, TrialRoutingKey, n)
}
