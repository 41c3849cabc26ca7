package repositories

import (
	"context"

	"lifeops-server/db"
	"lifeops-server/entities"
)

type userPgRepository struct {
	db db.Database
}

func NewUserPgRepository(database db.Database) UserRepository {
	return &userPgRepository{db: database}
}

func (r *userPgRepository) Create(ctx context.Context, user *entities.User) error {
	return wrap("create user", r.db.GetDB().WithContext(ctx).Create(user).Error)
}

func (r *userPgRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.GetDB().WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, wrap("find user", err)
	}
	return &user, nil
}

func (r *userPgRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.GetDB().WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrap("find user by email", err)
	}
	return &user, nil
}

func (r *userPgRepository) Update(ctx context.Context, user *entities.User) error {
	return wrap("update user", r.db.GetDB().WithContext(ctx).Save(user).Error)
}
