package paymentprovider

// Customer клиент Stripe.
type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// CustomerList страница списка клиентов.
type CustomerList struct {
	Data []Customer `json:"data"`
}

// Subscription подписка Stripe. Поле customer запрашивается развёрнутым.
type Subscription struct {
	ID         string   `json:"id"`
	Status     string   `json:"status"`
	Customer   Customer `json:"customer"`
	CanceledAt *int64   `json:"canceled_at"`
}

// CanceledSubscription ответ на отмену подписки.
type CanceledSubscription struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	CanceledAt *int64 `json:"canceled_at"`
}
