// Package queue implements batch message processing for the workers: a Dispatcher that runs
// a Handler over every message of a batch and reports which ones must be redelivered, and a
// Consumer that feeds it from a gocloud.dev pubsub subscription.
package queue

import (
	"context"

	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

// Message is one queue message.
type Message struct {
	ID   string `json:"id"`
	Body []byte `json:"body"`
}

// Batch is a group of messages delivered together.
type Batch struct {
	Messages []Message `json:"messages"`
}

// ItemFailure identifies a message to redeliver.
type ItemFailure struct {
	ID string `json:"id"`
}

// Acknowledgment lists the messages of a batch that must be redelivered. Every message not
// listed is resolved, successfully or not.
type Acknowledgment struct {
	Retry []ItemFailure `json:"retry"`
}

// RetryIDs returns the ids of the messages to redeliver as a set.
func (a Acknowledgment) RetryIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(a.Retry))
	for _, item := range a.Retry {
		ids[item.ID] = struct{}{}
	}
	return ids
}

func emptyAcknowledgment() Acknowledgment {
	return Acknowledgment{Retry: []ItemFailure{}}
}

// Handler processes one message.
type Handler interface {
	Handle(ctx context.Context, msg Message) outcome.Outcome[outcome.Void]
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, msg Message) outcome.Outcome[outcome.Void]

// Handle calls f(ctx, msg).
func (f HandlerFunc) Handle(ctx context.Context, msg Message) outcome.Outcome[outcome.Void] {
	return f(ctx, msg)
}
