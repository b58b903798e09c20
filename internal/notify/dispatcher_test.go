package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/alerts"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/herd"
)

type recordingSink struct {
	name     string
	received chan Notification
	fail     bool
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Deliver(ctx context.Context, n Notification) error {
	r.received <- n
	if r.fail {
		return errors.New("sink unavailable")
	}
	return nil
}

func waitFor(t *testing.T, ch chan Notification) Notification {
	t.Helper()
	select {
	case n := <-ch:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
		return Notification{}
	}
}

func TestDispatcher_FansOutToAllSinks(t *testing.T) {
	a := &recordingSink{name: "a", received: make(chan Notification, 1)}
	b := &recordingSink{name: "b", received: make(chan Notification, 1)}
	d := NewDispatcher(a, b)

	alert := &alerts.AlertEvent{ID: "alert-1", Message: "Cattle Thandi has left the farm boundary"}
	animal := &herd.Animal{ID: "animal-1", Name: "Thandi", Species: "cattle"}

	d.AlertCreated("owner-1", alert, animal)

	got := waitFor(t, a.received)
	if got.OwnerID != "owner-1" || got.AlertID != "alert-1" {
		t.Errorf("sink a got %+v", got)
	}
	if got.Body != alert.Message {
		t.Errorf("body = %q, want alert message", got.Body)
	}
	waitFor(t, b.received)
}

// One sink failing must not stop delivery to the others, and the breach path
// never sees the failure at all (AlertCreated has no error to return).
func TestDispatcher_SinkFailureDoesNotBlockOthers(t *testing.T) {
	failing := &recordingSink{name: "push", received: make(chan Notification, 1), fail: true}
	healthy := &recordingSink{name: "banner", received: make(chan Notification, 1)}
	d := NewDispatcher(failing, healthy)

	alert := &alerts.AlertEvent{ID: "alert-2", Message: "battery low"}
	animal := &herd.Animal{ID: "animal-2", Name: "Sipho"}

	d.AlertCreated("owner-1", alert, animal)

	waitFor(t, failing.received)
	waitFor(t, healthy.received)
}
