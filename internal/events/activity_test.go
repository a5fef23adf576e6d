package events

import (
	"context"
	"testing"
)

func TestPublishAndSubscribe(t *testing.T) {
	pub := NewInMemory(4)
	pub.PublishUserActivity(context.Background(), UserActivity{UserID: 1, Kind: "favorite", Subject: "1 Main St"})

	select {
	case evt := <-pub.SubscribeUserActivity():
		if evt.UserID != 1 || evt.Kind != "favorite" {
			t.Fatalf("unexpected event: %+v", evt)
		}
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	pub := NewInMemory(1)
	for i := 0; i < 100; i++ {
		pub.PublishUserActivity(context.Background(), UserActivity{UserID: i, Kind: "analysis"})
	}
	// overflow events are dropped; the one buffered event remains readable
	select {
	case <-pub.SubscribeUserActivity():
	default:
		t.Fatal("expected one buffered event")
	}
}
