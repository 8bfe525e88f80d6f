package notify

import "context"

// SendOptions tunes a single delivery.
type SendOptions struct {
	// Silent delivers without an audible alert.
	Silent bool
}

// Sink delivers text messages to a chat.
type Sink interface {
	Send(ctx context.Context, chatID int64, text string, opts SendOptions) error
}
