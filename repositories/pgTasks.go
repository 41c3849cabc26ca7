package repositories

import (
	"context"
	"time"

	"lifeops-server/db"
	"lifeops-server/entities"

	"gorm.io/gorm"
)

type taskPgRepository struct {
	db db.Database
}

func NewTaskPgRepository(database db.Database) TaskRepository {
	return &taskPgRepository{db: database}
}

func (r *taskPgRepository) Create(ctx context.Context, task *entities.Task) error {
	return wrap("create task", r.db.GetDB().WithContext(ctx).Create(task).Error)
}

func (r *taskPgRepository) GetByID(ctx context.Context, id string) (*entities.Task, error) {
	var task entities.Task
	if err := r.db.GetDB().WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, wrap("find task", err)
	}
	return &task, nil
}

func (r *taskPgRepository) ListVisible(ctx context.Context, userID string, householdID *string) ([]entities.Task, error) {
	var tasks []entities.Task
	q := r.db.GetDB().WithContext(ctx).Where("user_id = ?", userID)
	if householdID != nil {
		q = q.Or("household_id = ?", *householdID)
	}
	if err := q.Order("next_due_date ASC, title ASC").Find(&tasks).Error; err != nil {
		return nil, wrap("list tasks", err)
	}
	return tasks, nil
}

func (r *taskPgRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.GetDB().WithContext(ctx).Model(&entities.Task{}).Where("user_id = ?", userID).Count(&n).Error
	return n, wrap("count tasks", err)
}

func (r *taskPgRepository) Update(ctx context.Context, task *entities.Task) error {
	return wrap("update task", r.db.GetDB().WithContext(ctx).Save(task).Error)
}

func (r *taskPgRepository) MarkCompleted(ctx context.Context, id string, completedOn, nextDue time.Time) (*entities.Task, error) {
	res := r.db.GetDB().WithContext(ctx).Model(&entities.Task{}).Where("id = ?", id).Updates(map[string]interface{}{
		"completion_count":    gorm.Expr("completion_count + ?", 1),
		"last_completed_date": completedOn,
		"next_due_date":       nextDue,
		"updated_at":          time.Now(),
	})
	if res.Error != nil {
		return nil, wrap("complete task", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, wrap("complete task", gorm.ErrRecordNotFound)
	}
	return r.GetByID(ctx, id)
}

func (r *taskPgRepository) ClearCompletion(ctx context.Context, id string) (*entities.Task, error) {
	res := r.db.GetDB().WithContext(ctx).Model(&entities.Task{}).Where("id = ?", id).Updates(map[string]interface{}{
		"last_completed_date": nil,
		"updated_at":          time.Now(),
	})
	if res.Error != nil {
		return nil, wrap("uncomplete task", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, wrap("uncomplete task", gorm.ErrRecordNotFound)
	}
	return r.GetByID(ctx, id)
}

func (r *taskPgRepository) Delete(ctx context.Context, id string) error {
	return wrap("delete task", r.db.GetDB().WithContext(ctx).Where("id = ?", id).Delete(&entities.Task{}).Error)
}
