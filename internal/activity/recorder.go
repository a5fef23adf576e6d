// Package activity drains the user-activity event feed into the log.
package activity

import (
	"log"

	"github.com/yourorg/dealdesk-api/internal/events"
)

// Recorder consumes published user activity in the background.
type Recorder struct {
	pub events.Publisher
}

func NewRecorder(pub events.Publisher) *Recorder {
	return &Recorder{pub: pub}
}

// Start launches the drain loop. It exits when the publisher's channel
// closes, which in practice is process shutdown.
func (r *Recorder) Start() {
	go func() {
		for evt := range r.pub.SubscribeUserActivity() {
			log.Printf("[INFO] activity user=%d kind=%s subject=%q", evt.UserID, evt.Kind, evt.Subject)
		}
	}()
}
