package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// TrialRoutingKey — ключ маршрутизации уведомлений пробного периода.
const TrialRoutingKey = "trial"

// GetNotificationQueues возвращает очереди уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.trial", RoutingKey: TrialRoutingKey},
	}
}
