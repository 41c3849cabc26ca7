package usecases

import (
	"context"
	"strings"

	"lifeops-server/apperr"
	"lifeops-server/auth"
	"lifeops-server/entities"
	"lifeops-server/repositories"
)

type SettingsView struct {
	User        *entities.User `json:"user"`
	HasPassword bool           `json:"hasPassword"`
}

type SettingsUseCase struct {
	users       repositories.UserRepository
	invalidator Invalidator
}

func NewSettingsUseCase(users repositories.UserRepository) *SettingsUseCase {
	return &SettingsUseCase{users: users, invalidator: noopInvalidator{}}
}

// WithInvalidator sets the cache dropped on plan changes.
func (uc *SettingsUseCase) WithInvalidator(i Invalidator) *SettingsUseCase {
	uc.invalidator = i
	return uc
}

func (uc *SettingsUseCase) Get(user *entities.User) SettingsView {
	return SettingsView{User: user, HasPassword: user.PasswordHash != nil && *user.PasswordHash != ""}
}

func (uc *SettingsUseCase) UpdateProfile(ctx context.Context, user *entities.User, name string) (*entities.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if len(name) > 120 {
		return nil, apperr.Validation("name must be at most 120 characters")
	}
	user.Name = name
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// ChangePassword sets a new password. When the account already has one, the
// current password must match; accounts from an external provider can set a
// first password without it.
func (uc *SettingsUseCase) ChangePassword(ctx context.Context, user *entities.User, current, next string) error {
	if user.PasswordHash != nil && *user.PasswordHash != "" {
		if err := auth.CheckPassword(user.PasswordHash, current); err != nil {
			return apperr.Validation("current password is incorrect")
		}
	}
	if err := validatePassword(next); err != nil {
		return err
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return apperr.Internal(err)
	}
	user.PasswordHash = &hash
	if err := uc.users.Update(ctx, user); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// ChangePlan switches the subscription tier. Billing happens elsewhere.
func (uc *SettingsUseCase) ChangePlan(ctx context.Context, user *entities.User, plan entities.Plan) (*entities.User, error) {
	if !plan.Valid() {
		return nil, apperr.Validation("plan must be FREE or PRO")
	}
	user.Plan = plan
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, apperr.Internal(err)
	}
	uc.invalidator.Invalidate(user.ID)
	return user, nil
}
