package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"chatwidget/internal/models"
)

// Pinger probes an upstream dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// UpstreamChecker performs background reachability checks on the external
// answer API and keeps the last result for /health.
type UpstreamChecker struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration

	mu     sync.RWMutex
	status models.UpstreamStatus
}

// NewUpstreamChecker creates a new upstream checker.
func NewUpstreamChecker(pinger Pinger, interval time.Duration) *UpstreamChecker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &UpstreamChecker{
		pinger:   pinger,
		interval: interval,
		timeout:  10 * time.Second,
		status:   models.UpstreamStatus{Status: models.HealthUnknown},
	}
}

// Start begins the background check loop. It returns when ctx is done.
func (u *UpstreamChecker) Start(ctx context.Context) {
	log.Printf("Upstream checker started (interval: %v)", u.interval)

	// Run immediately on start
	u.Check(ctx)

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Upstream checker stopped")
			return
		case <-ticker.C:
			u.Check(ctx)
		}
	}
}

// Check probes the upstream once and records the result.
func (u *UpstreamChecker) Check(ctx context.Context) models.UpstreamStatus {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	now := time.Now()
	next := models.UpstreamStatus{Status: models.HealthHealthy, CheckedAt: &now}
	if err := u.pinger.Ping(ctx); err != nil {
		next.Status = models.HealthUnhealthy
		next.Error = err.Error()
	}

	u.mu.Lock()
	prev := u.status.Status
	u.status = next
	u.mu.Unlock()

	if prev != next.Status {
		log.Printf("Upstream checker: answer api is %s", next.Status)
	}
	return next
}

// Status returns the last recorded result.
func (u *UpstreamChecker) Status() models.UpstreamStatus {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.status
}
