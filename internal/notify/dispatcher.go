// Package notify fans newly created alerts out to the in-app banner feed and
// the best-effort push gateway. The durable record is already written by the
// alert store before anything reaches this package; delivery here is strictly
// fire-and-forget and never reports failure back to the creator.
package notify

import (
	"context"
	"log"
	"time"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/alerts"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/herd"
)

// Notification is the transport-agnostic payload handed to every sink.
type Notification struct {
	OwnerID string `json:"owner_id"`
	AlertID string `json:"alert_id"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	Icon    string `json:"icon"`
}

// Sink delivers one notification. Implementations decide their own delivery
// guarantees; the dispatcher only logs and swallows their errors.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n Notification) error
}

// Dispatcher fans one alert out to all configured sinks. It performs no
// deduplication of its own — input is assumed to be an already-deduplicated
// AlertEvent — and must never block alert persistence.
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{
		sinks:   sinks,
		timeout: 5 * time.Second,
	}
}

// AlertCreated satisfies alerts.Notifier. Delivery runs on its own goroutine
// with a detached context so a slow sink cannot stall the breach path.
func (d *Dispatcher) AlertCreated(ownerID string, alert *alerts.AlertEvent, animal *herd.Animal) {
	n := Notification{
		OwnerID: ownerID,
		AlertID: alert.ID,
		Title:   "HerdGuard alert",
		Body:    alert.Message,
		Icon:    "/icons/herdguard-alert.png",
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		for _, sink := range d.sinks {
			if err := sink.Deliver(ctx, n); err != nil {
				log.Printf("[notify] %s delivery failed for alert %s: %v", sink.Name(), n.AlertID, err)
			}
		}
	}()
}
