// Package events carries in-process notifications about user actions.
package events

import (
	"context"
)

// UserActivity describes one action a user took, such as running an
// analysis or favoriting a property.
type UserActivity struct {
	UserID  int
	Kind    string // "search", "analysis", "favorite", "save", "upgrade"
	Subject string // usually a property address
}

type Publisher interface {
	PublishUserActivity(ctx context.Context, evt UserActivity)
	SubscribeUserActivity() <-chan UserActivity
}

type inMemory struct{ ch chan UserActivity }

func NewInMemory(buffer int) Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &inMemory{ch: make(chan UserActivity, buffer)}
}

// PublishUserActivity never blocks; events are dropped when the buffer
// is full.
func (m *inMemory) PublishUserActivity(_ context.Context, evt UserActivity) {
	select {
	case m.ch <- evt:
	default:
	}
}

func (m *inMemory) SubscribeUserActivity() <-chan UserActivity { return m.ch }
