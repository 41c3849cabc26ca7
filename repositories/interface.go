package repositories

import (
	"context"
	"errors"
	"time"

	"lifeops-server/entities"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *entities.Session) error
	GetByTokenHash(ctx context.Context, hash string) (*entities.Session, error)
	DeleteByTokenHash(ctx context.Context, hash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, id string) (*entities.Task, error)
	// ListVisible returns tasks owned by userID plus, when householdID is set,
	// every task shared with that household.
	ListVisible(ctx context.Context, userID string, householdID *string) ([]entities.Task, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	Update(ctx context.Context, task *entities.Task) error
	// MarkCompleted increments completion_count in the database and writes the
	// completion date and next due date in the same statement.
	MarkCompleted(ctx context.Context, id string, completedOn, nextDue time.Time) (*entities.Task, error)
	ClearCompletion(ctx context.Context, id string) (*entities.Task, error)
	Delete(ctx context.Context, id string) error
}

type HouseholdRepository interface {
	// Transaction runs fn with a repository bound to a single transaction.
	Transaction(ctx context.Context, fn func(tx HouseholdRepository) error) error

	Create(ctx context.Context, household *entities.Household, owner *entities.HouseholdMember) error
	GetByID(ctx context.Context, id string) (*entities.Household, error)
	// Delete removes the household, its members and invites, and un-shares
	// its tasks.
	Delete(ctx context.Context, id string) error

	GetMembership(ctx context.Context, userID string) (*entities.HouseholdMember, error)
	ListMembers(ctx context.Context, householdID string) ([]entities.HouseholdMember, error)
	AddMember(ctx context.Context, member *entities.HouseholdMember) error
	RemoveMember(ctx context.Context, householdID, userID string) error
	// UnshareUserTasks detaches a departing member's tasks from the household.
	UnshareUserTasks(ctx context.Context, householdID, userID string) error

	CreateInvite(ctx context.Context, invite *entities.HouseholdInvite) error
	GetInviteByToken(ctx context.Context, token string) (*entities.HouseholdInvite, error)
	ListInvites(ctx context.Context, householdID string) ([]entities.HouseholdInvite, error)
	DeleteInvite(ctx context.Context, householdID, id string) error
	DeleteExpiredInvites(ctx context.Context, before time.Time) (int64, error)
}
