package repositories

import (
	"context"
	"time"

	"lifeops-server/db"
	"lifeops-server/entities"

	"gorm.io/gorm"
)

type householdPgRepository struct {
	db db.Database
}

func NewHouseholdPgRepository(database db.Database) HouseholdRepository {
	return &householdPgRepository{db: database}
}

func (r *householdPgRepository) Transaction(ctx context.Context, fn func(tx HouseholdRepository) error) error {
	return r.db.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&householdPgRepository{db: &db.GormDatabase{DB: tx}})
	})
}

func (r *householdPgRepository) Create(ctx context.Context, household *entities.Household, owner *entities.HouseholdMember) error {
	err := r.db.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members").Create(household).Error; err != nil {
			return err
		}
		owner.HouseholdID = household.ID
		return tx.Omit("User").Create(owner).Error
	})
	return wrap("create household", err)
}

func (r *householdPgRepository) GetByID(ctx context.Context, id string) (*entities.Household, error) {
	var household entities.Household
	err := r.db.GetDB().WithContext(ctx).
		Preload("Members", func(q *gorm.DB) *gorm.DB { return q.Order("created_at ASC") }).
		Preload("Members.User").
		Where("id = ?", id).First(&household).Error
	if err != nil {
		return nil, wrap("find household", err)
	}
	return &household, nil
}

func (r *householdPgRepository) Delete(ctx context.Context, id string) error {
	err := r.db.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Task{}).Where("household_id = ?", id).Update("household_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("household_id = ?", id).Delete(&entities.HouseholdInvite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("household_id = ?", id).Delete(&entities.HouseholdMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Household{}).Error
	})
	return wrap("delete household", err)
}

func (r *householdPgRepository) GetMembership(ctx context.Context, userID string) (*entities.HouseholdMember, error) {
	var member entities.HouseholdMember
	if err := r.db.GetDB().WithContext(ctx).Where("user_id = ?", userID).First(&member).Error; err != nil {
		return nil, wrap("find membership", err)
	}
	return &member, nil
}

func (r *householdPgRepository) ListMembers(ctx context.Context, householdID string) ([]entities.HouseholdMember, error) {
	var members []entities.HouseholdMember
	err := r.db.GetDB().WithContext(ctx).Preload("User").
		Where("household_id = ?", householdID).Order("created_at ASC").Find(&members).Error
	return members, wrap("list members", err)
}

func (r *householdPgRepository) AddMember(ctx context.Context, member *entities.HouseholdMember) error {
	return wrap("add member", r.db.GetDB().WithContext(ctx).Omit("User").Create(member).Error)
}

func (r *householdPgRepository) RemoveMember(ctx context.Context, householdID, userID string) error {
	res := r.db.GetDB().WithContext(ctx).Where("household_id = ? AND user_id = ?", householdID, userID).Delete(&entities.HouseholdMember{})
	if res.Error == nil && res.RowsAffected == 0 {
		return wrap("remove member", gorm.ErrRecordNotFound)
	}
	return wrap("remove member", res.Error)
}

func (r *householdPgRepository) UnshareUserTasks(ctx context.Context, householdID, userID string) error {
	err := r.db.GetDB().WithContext(ctx).Model(&entities.Task{}).
		Where("household_id = ? AND user_id = ?", householdID, userID).
		Update("household_id", nil).Error
	return wrap("unshare tasks", err)
}

func (r *householdPgRepository) CreateInvite(ctx context.Context, invite *entities.HouseholdInvite) error {
	return wrap("create invite", r.db.GetDB().WithContext(ctx).Create(invite).Error)
}

func (r *householdPgRepository) GetInviteByToken(ctx context.Context, token string) (*entities.HouseholdInvite, error) {
	var invite entities.HouseholdInvite
	if err := r.db.GetDB().WithContext(ctx).Where("token = ?", token).First(&invite).Error; err != nil {
		return nil, wrap("find invite", err)
	}
	return &invite, nil
}

func (r *householdPgRepository) ListInvites(ctx context.Context, householdID string) ([]entities.HouseholdInvite, error) {
	var invites []entities.HouseholdInvite
	err := r.db.GetDB().WithContext(ctx).Where("household_id = ?", householdID).Order("created_at DESC").Find(&invites).Error
	return invites, wrap("list invites", err)
}

func (r *householdPgRepository) DeleteInvite(ctx context.Context, householdID, id string) error {
	res := r.db.GetDB().WithContext(ctx).Where("household_id = ? AND id = ?", householdID, id).Delete(&entities.HouseholdInvite{})
	if res.Error == nil && res.RowsAffected == 0 {
		return wrap("delete invite", gorm.ErrRecordNotFound)
	}
	return wrap("delete invite", res.Error)
}

func (r *householdPgRepository) DeleteExpiredInvites(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.GetDB().WithContext(ctx).Where("expires_at <= ?", before).Delete(&entities.HouseholdInvite{})
	return res.RowsAffected, wrap("delete expired invites", res.Error)
}
