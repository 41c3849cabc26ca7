package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"lifeops-server/repositories"

	"github.com/robfig/cron/v3"
)

// inviteGrace is how long an expired invite is kept before the sweep deletes it.
const inviteGrace = 24 * time.Hour

// Pruner drops expired cache entries.
type Pruner interface {
	Prune() int
}

// SweepResult counts what a single sweep removed.
type SweepResult struct {
	Sessions     int64     `json:"sessions"`
	Invites      int64     `json:"invites"`
	CacheEntries int       `json:"cacheEntries"`
	At           time.Time `json:"at"`
}

// Janitor periodically removes expired sessions, stale invites and cached
// reports.
type Janitor struct {
	cron       *cron.Cron
	sessions   repositories.SessionRepository
	households repositories.HouseholdRepository
	caches     []Pruner
	now        func() time.Time

	mu   sync.Mutex
	last SweepResult
}

func NewJanitor(sessions repositories.SessionRepository, households repositories.HouseholdRepository, caches ...Pruner) *Janitor {
	return &Janitor{
		cron:       cron.New(cron.WithLocation(time.UTC), cron.WithSeconds()),
		sessions:   sessions,
		households: households,
		caches:     caches,
		now:        time.Now,
	}
}

// WithClock replaces the janitor's time source.
func (j *Janitor) WithClock(now func() time.Time) *Janitor {
	j.now = now
	return j
}

// Start schedules Sweep every interval and starts the scheduler.
func (j *Janitor) Start(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	if _, err := j.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), func() {
		if _, err := j.Sweep(context.Background()); err != nil {
			log.Printf("Janitor sweep failed: %v", err)
		}
	}); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

// Sweep runs one cleanup pass.
func (j *Janitor) Sweep(ctx context.Context) (SweepResult, error) {
	now := j.now().UTC()
	res := SweepResult{At: now}

	n, err := j.sessions.DeleteExpired(ctx, now)
	if err != nil {
		return res, fmt.Errorf("prune sessions: %w", err)
	}
	res.Sessions = n

	n, err = j.households.DeleteExpiredInvites(ctx, now.Add(-inviteGrace))
	if err != nil {
		return res, fmt.Errorf("prune invites: %w", err)
	}
	res.Invites = n

	for _, c := range j.caches {
		res.CacheEntries += c.Prune()
	}

	if res.Sessions+res.Invites > 0 || res.CacheEntries > 0 {
		log.Printf("Janitor removed %d sessions, %d invites, %d cache entries", res.Sessions, res.Invites, res.CacheEntries)
	}

	j.mu.Lock()
	j.last = res
	j.mu.Unlock()
	return res, nil
}

// LastSweep returns the result of the most recent successful sweep.
func (j *Janitor) LastSweep() SweepResult {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.last
}
