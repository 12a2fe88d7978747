package payload

import (
	"time"

	"github.com/perspective/database"
)

const (
	MessageSubscribed        = "Thanks for subscribing!"
	MessageAlreadySubscribed = "This email is already on our mailing list."
)

type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type SubscribeResponse struct {
	Message           string `json:"message"`
	AlreadySubscribed bool   `json:"already_subscribed"`
}

type Subscriber struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	IsActive     bool      `json:"is_active"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

type SubscribersResponse struct {
	Subscribers []Subscriber `json:"subscribers"`
}

func MapSubscribers(rows []database.NewsletterSubscriber) SubscribersResponse {
	out := make([]Subscriber, 0, len(rows))

	for _, row := range rows {
		out = append(out, Subscriber{
			ID:           row.ID,
			Email:        row.Email,
			IsActive:     row.IsActive,
			SubscribedAt: row.SubscribedAt,
		})
	}

	return SubscribersResponse{Subscribers: out}
}
