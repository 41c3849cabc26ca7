package repositories

import (
	"context"
	"time"

	"lifeops-server/db"
	"lifeops-server/entities"
)

type sessionPgRepository struct {
	db db.Database
}

func NewSessionPgRepository(database db.Database) SessionRepository {
	return &sessionPgRepository{db: database}
}

func (r *sessionPgRepository) Create(ctx context.Context, session *entities.Session) error {
	return wrap("create session", r.db.GetDB().WithContext(ctx).Create(session).Error)
}

func (r *sessionPgRepository) GetByTokenHash(ctx context.Context, hash string) (*entities.Session, error) {
	var session entities.Session
	if err := r.db.GetDB().WithContext(ctx).Where("token_hash = ?", hash).First(&session).Error; err != nil {
		return nil, wrap("find session", err)
	}
	return &session, nil
}

func (r *sessionPgRepository) DeleteByTokenHash(ctx context.Context, hash string) error {
	return wrap("delete session", r.db.GetDB().WithContext(ctx).Where("token_hash = ?", hash).Delete(&entities.Session{}).Error)
}

func (r *sessionPgRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.GetDB().WithContext(ctx).Where("expires_at <= ?", now).Delete(&entities.Session{})
	return res.RowsAffected, wrap("delete expired sessions", res.Error)
}
