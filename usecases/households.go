package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"lifeops-server/apperr"
	"lifeops-server/auth"
	"lifeops-server/entities"
	"lifeops-server/repositories"
)

// HouseholdView is the caller's household. Invites are only filled in for
// the owner.
type HouseholdView struct {
	Household *entities.Household        `json:"household"`
	Role      entities.Role              `json:"role"`
	Invites   []entities.HouseholdInvite `json:"invites,omitempty"`
}

// InviteInfo is what an invite link shows before it is accepted.
type InviteInfo struct {
	HouseholdID   string               `json:"householdId"`
	HouseholdName string               `json:"householdName"`
	MemberCount   int                  `json:"memberCount"`
	ExpiresAt     time.Time            `json:"expiresAt"`
	State         entities.InviteState `json:"state"`
}

type HouseholdUseCase struct {
	households  repositories.HouseholdRepository
	invalidator Invalidator
	clock       Clock
	inviteTTL   time.Duration
}

func NewHouseholdUseCase(households repositories.HouseholdRepository, clock Clock, inviteTTL time.Duration) *HouseholdUseCase {
	return &HouseholdUseCase{
		households:  households,
		invalidator: noopInvalidator{},
		clock:       clock,
		inviteTTL:   inviteTTL,
	}
}

// WithInvalidator sets the cache dropped when membership changes what a user
// can see.
func (uc *HouseholdUseCase) WithInvalidator(i Invalidator) *HouseholdUseCase {
	uc.invalidator = i
	return uc
}

// Create starts a household with the caller as OWNER.
func (uc *HouseholdUseCase) Create(ctx context.Context, user *entities.User, name string) (*HouseholdView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if len(name) > 120 {
		return nil, apperr.Validation("name must be at most 120 characters")
	}

	existing, err := membershipOf(ctx, uc.households, user.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("you already belong to a household")
	}

	household := &entities.Household{Name: name}
	owner := &entities.HouseholdMember{UserID: user.ID, Role: entities.RoleOwner}
	if err := uc.households.Create(ctx, household, owner); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperr.Conflict("you already belong to a household")
		}
		return nil, apperr.Internal(err)
	}
	return uc.Get(ctx, user)
}

// Get returns the caller's household with members.
func (uc *HouseholdUseCase) Get(ctx context.Context, user *entities.User) (*HouseholdView, error) {
	m, err := membershipOf(ctx, uc.households, user.ID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.NotFound("you are not in a household")
	}
	household, err := uc.households.GetByID(ctx, m.HouseholdID)
	if err != nil {
		return nil, notFoundOr(err, "household not found")
	}

	view := &HouseholdView{Household: household, Role: m.Role}
	if m.Role == entities.RoleOwner {
		if view.Invites, err = uc.households.ListInvites(ctx, household.ID); err != nil {
			return nil, apperr.Internal(err)
		}
	}
	return view, nil
}

func (uc *HouseholdUseCase) requireOwner(ctx context.Context, user *entities.User) (*entities.HouseholdMember, error) {
	m, err := membershipOf(ctx, uc.households, user.ID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.NotFound("you are not in a household")
	}
	if m.Role != entities.RoleOwner {
		return nil, apperr.Forbidden("only the household owner can do that")
	}
	return m, nil
}

// CreateInvite issues a new invite token valid for the configured horizon.
func (uc *HouseholdUseCase) CreateInvite(ctx context.Context, user *entities.User) (*entities.HouseholdInvite, error) {
	m, err := uc.requireOwner(ctx, user)
	if err != nil {
		return nil, err
	}
	token, err := auth.NewOpaqueToken()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	invite := &entities.HouseholdInvite{
		Token:       token,
		HouseholdID: m.HouseholdID,
		CreatedByID: user.ID,
		ExpiresAt:   uc.clock.Now().Add(uc.inviteTTL).UTC(),
	}
	if err := uc.households.CreateInvite(ctx, invite); err != nil {
		return nil, apperr.Internal(err)
	}
	return invite, nil
}

func (uc *HouseholdUseCase) RevokeInvite(ctx context.Context, user *entities.User, inviteID string) error {
	m, err := uc.requireOwner(ctx, user)
	if err != nil {
		return err
	}
	if err := uc.households.DeleteInvite(ctx, m.HouseholdID, inviteID); err != nil {
		return notFoundOr(err, "invite not found")
	}
	return nil
}

// InviteInfo resolves an invite token for display.
func (uc *HouseholdUseCase) InviteInfo(ctx context.Context, token string) (*InviteInfo, error) {
	invite, err := uc.households.GetInviteByToken(ctx, token)
	if err != nil {
		return nil, notFoundOr(err, "invite not found")
	}
	household, err := uc.households.GetByID(ctx, invite.HouseholdID)
	if err != nil {
		return nil, notFoundOr(err, "invite not found")
	}
	return &InviteInfo{
		HouseholdID:   household.ID,
		HouseholdName: household.Name,
		MemberCount:   len(household.Members),
		ExpiresAt:     invite.ExpiresAt,
		State:         invite.StateAt(uc.clock.Now()),
	}, nil
}

// Redeem joins the caller to the invite's household as MEMBER. The gates run
// in order inside one transaction: the invite must exist, must not have
// expired (now >= expiresAt is expired), and the caller must not already
// belong to any household, including this one. The unique index on
// membership user ids rejects a concurrent second redemption.
func (uc *HouseholdUseCase) Redeem(ctx context.Context, user *entities.User, token string) (*entities.HouseholdMember, error) {
	var member *entities.HouseholdMember
	err := uc.households.Transaction(ctx, func(tx repositories.HouseholdRepository) error {
		invite, err := tx.GetInviteByToken(ctx, token)
		if err != nil {
			return notFoundOr(err, "invite not found")
		}
		if !invite.ValidAt(uc.clock.Now()) {
			return apperr.Expired("invite has expired")
		}
		existing, err := membershipOf(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict("you already belong to a household")
		}

		member = &entities.HouseholdMember{HouseholdID: invite.HouseholdID, UserID: user.ID, Role: entities.RoleMember}
		if err := tx.AddMember(ctx, member); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return apperr.Conflict("you already belong to a household")
			}
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	if ids, err := memberIDs(ctx, uc.households, member.HouseholdID); err == nil {
		uc.invalidator.Invalidate(ids...)
	}
	return member, nil
}

// Leave removes the caller from their household and un-shares their tasks.
// An owner can only leave as the last member, which dissolves the household.
func (uc *HouseholdUseCase) Leave(ctx context.Context, user *entities.User) error {
	m, err := membershipOf(ctx, uc.households, user.ID)
	if err != nil {
		return err
	}
	if m == nil {
		return apperr.NotFound("you are not in a household")
	}
	ids, err := memberIDs(ctx, uc.households, m.HouseholdID)
	if err != nil {
		return err
	}

	if m.Role == entities.RoleOwner {
		if len(ids) > 1 {
			return apperr.Conflict("remove the other members before leaving a household you own")
		}
		if err := uc.households.Delete(ctx, m.HouseholdID); err != nil {
			return apperr.Internal(err)
		}
	} else if err := uc.removeMember(ctx, m.HouseholdID, user.ID); err != nil {
		return err
	}

	uc.invalidator.Invalidate(ids...)
	return nil
}

// RemoveMember lets the owner remove another member.
func (uc *HouseholdUseCase) RemoveMember(ctx context.Context, user *entities.User, memberUserID string) error {
	m, err := uc.requireOwner(ctx, user)
	if err != nil {
		return err
	}
	if memberUserID == user.ID {
		return apperr.Validation("use leave to remove yourself")
	}
	target, err := membershipOf(ctx, uc.households, memberUserID)
	if err != nil {
		return err
	}
	if target == nil || target.HouseholdID != m.HouseholdID {
		return apperr.NotFound("member not found")
	}
	ids, err := memberIDs(ctx, uc.households, m.HouseholdID)
	if err != nil {
		return err
	}
	if err := uc.removeMember(ctx, m.HouseholdID, memberUserID); err != nil {
		return err
	}
	uc.invalidator.Invalidate(ids...)
	return nil
}

func (uc *HouseholdUseCase) removeMember(ctx context.Context, householdID, userID string) error {
	err := uc.households.Transaction(ctx, func(tx repositories.HouseholdRepository) error {
		if err := tx.UnshareUserTasks(ctx, householdID, userID); err != nil {
			return err
		}
		return tx.RemoveMember(ctx, householdID, userID)
	})
	if err != nil {
		return notFoundOr(err, "member not found")
	}
	return nil
}
