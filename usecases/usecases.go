package usecases

import (
	"context"
	"errors"
	"time"

	"lifeops-server/apperr"
	"lifeops-server/entities"
	"lifeops-server/repositories"
	"lifeops-server/schedule"
	"lifeops-server/ws"
)

// Clock supplies the current instant and the zone calendar dates are
// computed in.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{Now: time.Now, Location: loc}
}

// Today is the noon-normalized current date.
func (c Clock) Today() time.Time {
	return schedule.Today(c.Now(), c.Location)
}

// Publisher pushes live events to connected users.
type Publisher interface {
	Broadcast(userIDs []string, ev ws.Event)
}

// Invalidator drops cached per-user data.
type Invalidator interface {
	Invalidate(keys ...string)
}

type noopPublisher struct{}

func (noopPublisher) Broadcast([]string, ws.Event) {}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(...string) {}

// notFoundOr maps a missing record to NOT_FOUND and anything else to INTERNAL.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NotFound(msg)
	}
	return apperr.Internal(err)
}

// classify passes use case errors through and turns anything else into
// INTERNAL.
func classify(err error) error {
	var e *apperr.Error
	if errors.As(err, &e) {
		return err
	}
	return apperr.Internal(err)
}

// membershipOf returns the user's membership or nil when the user is in no
// household.
func membershipOf(ctx context.Context, households repositories.HouseholdRepository, userID string) (*entities.HouseholdMember, error) {
	m, err := households.GetMembership(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return m, nil
}

// memberIDs lists the user ids in a household.
func memberIDs(ctx context.Context, households repositories.HouseholdRepository, householdID string) ([]string, error) {
	members, err := households.ListMembers(ctx, householdID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return ids, nil
}
