package notify

import (
	"context"
	"sync"
	"time"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/utils"
)

// BannerTTL is how long an in-app banner stays visible before it
// self-dismisses.
const BannerTTL = 6 * time.Second

// Banner is one ephemeral in-app notification. Purely transient: banners live
// in process memory only and vanish on restart, which is fine for a surface
// whose whole lifespan is seconds.
type Banner struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BannerSink holds the live banners per owner, pruning expired ones lazily on
// read and write rather than running a sweeper goroutine.
type BannerSink struct {
	mu      sync.Mutex
	banners []Banner
	ttl     time.Duration
	now     func() time.Time
}

func NewBannerSink() *BannerSink {
	return &BannerSink{
		ttl: BannerTTL,
		now: time.Now,
	}
}

func (b *BannerSink) Name() string { return "banner" }

func (b *BannerSink) Deliver(ctx context.Context, n Notification) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.pruneLocked(now)
	b.banners = append(b.banners, Banner{
		ID:        utils.GenerateUUID(),
		OwnerID:   n.OwnerID,
		Message:   n.Body,
		CreatedAt: now,
		ExpiresAt: now.Add(b.ttl),
	})
	return nil
}

// Active returns the owner's banners that have not yet expired.
func (b *BannerSink) Active(ownerID string) []Banner {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pruneLocked(b.now())
	out := []Banner{}
	for _, banner := range b.banners {
		if banner.OwnerID == ownerID {
			out = append(out, banner)
		}
	}
	return out
}

func (b *BannerSink) pruneLocked(now time.Time) {
	kept := b.banners[:0]
	for _, banner := range b.banners {
		if banner.ExpiresAt.After(now) {
			kept = append(kept, banner)
		}
	}
	b.banners = kept
}
