package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// PushPermission records whether an owner has granted platform push
// notifications, plus where to deliver them.
type PushPermission struct {
	FarmerID  string    `gorm:"primaryKey" json:"farmer_id"`
	Granted   bool      `json:"granted"`
	Endpoint  string    `json:"endpoint"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PushPermission) TableName() string { return "herdguard.push_permissions" }

// PermissionChecker answers whether push delivery is allowed for an owner and
// where to send it. Backed by the push_permissions table in production; tests
// substitute a fake.
type PermissionChecker interface {
	PushTarget(ctx context.Context, ownerID string) (endpoint string, granted bool, err error)
}

// PushSink posts notifications to a push gateway, best-effort only. Delivery
// is gated on the owner's stored permission grant and throttled so an alert
// storm cannot flood the gateway. Failures are returned for logging and then
// forgotten — never retried.
type PushSink struct {
	gateway     string
	client      *http.Client
	limiter     *rate.Limiter
	permissions PermissionChecker
}

func NewPushSink(permissions PermissionChecker) *PushSink {
	return &PushSink{
		gateway:     os.Getenv("PUSH_GATEWAY_URL"),
		client:      &http.Client{Timeout: 4 * time.Second},
		limiter:     rate.NewLimiter(rate.Every(time.Second), 10),
		permissions: permissions,
	}
}

func (p *PushSink) Name() string { return "push" }

func (p *PushSink) Deliver(ctx context.Context, n Notification) error {
	if p.gateway == "" {
		return nil
	}

	endpoint, granted, err := p.permissions.PushTarget(ctx, n.OwnerID)
	if err != nil {
		return fmt.Errorf("permission lookup: %w", err)
	}
	if !granted {
		// Permission never granted or revoked: silently skip, per contract.
		return nil
	}

	if !p.limiter.Allow() {
		return fmt.Errorf("push rate limit exceeded, dropping alert %s", n.AlertID)
	}

	payload, err := json.Marshal(map[string]string{
		"endpoint": endpoint,
		"title":    n.Title,
		"body":     n.Body,
		"icon":     n.Icon,
	})
	if err != nil {
		return fmt.Errorf("encode push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.gateway, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("push delivery: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("push gateway returned %d", resp.StatusCode)
	}
	return nil
}
