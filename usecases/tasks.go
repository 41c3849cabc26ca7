package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lifeops-server/apperr"
	"lifeops-server/entities"
	"lifeops-server/repositories"
	"lifeops-server/schedule"
	"lifeops-server/ws"
)

const maxNotesLength = 1000

// TaskInput is the data needed to create a task.
type TaskInput struct {
	Title         string
	Category      entities.Category
	ScheduleType  schedule.Type
	ScheduleValue *int
	MonthDay      string // YEARLY only, MM-DD
	DueDate       *time.Time
	Notes         *string
	Shared        bool
}

// TaskUpdate carries the optional fields of an edit.
type TaskUpdate struct {
	Title    *string
	Category *entities.Category
	Notes    *string
	DueDate  *time.Time
	Shared   *bool
}

// TaskView is a task as seen by one user on one day.
type TaskView struct {
	entities.Task
	Status   schedule.Status `json:"status"`
	MonthDay string          `json:"monthDay,omitempty"`
	Owned    bool            `json:"owned"`
}

type TaskUseCase struct {
	tasks         repositories.TaskRepository
	households    repositories.HouseholdRepository
	publisher     Publisher
	invalidator   Invalidator
	clock         Clock
	freeTaskLimit int
}

func NewTaskUseCase(tasks repositories.TaskRepository, households repositories.HouseholdRepository, clock Clock, freeTaskLimit int) *TaskUseCase {
	return &TaskUseCase{
		tasks:         tasks,
		households:    households,
		publisher:     noopPublisher{},
		invalidator:   noopInvalidator{},
		clock:         clock,
		freeTaskLimit: freeTaskLimit,
	}
}

// WithPublisher sets where household task events are pushed.
func (uc *TaskUseCase) WithPublisher(p Publisher) *TaskUseCase {
	uc.publisher = p
	return uc
}

// WithInvalidator sets the cache dropped whenever a user's tasks change.
func (uc *TaskUseCase) WithInvalidator(i Invalidator) *TaskUseCase {
	uc.invalidator = i
	return uc
}

func (uc *TaskUseCase) view(task *entities.Task, userID string) TaskView {
	return TaskView{
		Task:     *task,
		Status:   schedule.StatusOf(task.NextDueDate, task.LastCompletedDate, uc.clock.Today()),
		MonthDay: task.MonthDay(),
		Owned:    task.UserID == userID,
	}
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperr.Validation("title is required")
	}
	if len(title) > 200 {
		return "", apperr.Validation("title must be at most 200 characters")
	}
	return title, nil
}

func validateNotes(notes *string) (*string, error) {
	if notes == nil {
		return nil, nil
	}
	n := strings.TrimSpace(*notes)
	if n == "" {
		return nil, nil
	}
	if len([]rune(n)) > maxNotesLength {
		return nil, apperr.Validation(fmt.Sprintf("notes must be at most %d characters", maxNotesLength))
	}
	return &n, nil
}

// Create adds a task owned by user. FREE accounts are capped at the
// configured number of owned tasks.
func (uc *TaskUseCase) Create(ctx context.Context, user *entities.User, in TaskInput) (*TaskView, error) {
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if !in.Category.Valid() {
		return nil, apperr.Validation("category is invalid")
	}
	if !in.ScheduleType.Valid() {
		return nil, apperr.Validation("scheduleType is invalid")
	}
	notes, err := validateNotes(in.Notes)
	if err != nil {
		return nil, err
	}

	if user.Plan == entities.PlanFree {
		n, err := uc.tasks.CountByUser(ctx, user.ID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if n >= int64(uc.freeTaskLimit) {
			return nil, apperr.Forbidden(fmt.Sprintf("the free plan is limited to %d tasks; upgrade to Pro for more", uc.freeTaskLimit))
		}
	}

	var value *int
	switch in.ScheduleType {
	case schedule.EveryNMonths:
		value = in.ScheduleValue
	case schedule.Yearly:
		month, day, err := schedule.DecodeMonthDay(in.MonthDay)
		if err != nil {
			return nil, apperr.Validation("monthDay must be formatted as MM-DD")
		}
		v := schedule.MonthDayValue(month, day)
		value = &v
	}

	next, err := schedule.InitialDueDate(in.ScheduleType, value, in.DueDate, uc.clock.Today())
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	task := &entities.Task{
		Title:         title,
		Category:      in.Category,
		ScheduleType:  in.ScheduleType,
		ScheduleValue: value,
		NextDueDate:   next.UTC(),
		Notes:         notes,
		UserID:        user.ID,
	}

	if in.Shared {
		m, err := membershipOf(ctx, uc.households, user.ID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, apperr.Validation("join a household before sharing tasks")
		}
		task.HouseholdID = &m.HouseholdID
	}

	if err := uc.tasks.Create(ctx, task); err != nil {
		return nil, apperr.Internal(err)
	}
	affected, err := uc.affectedUsers(ctx, task)
	if err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(affected...)

	v := uc.view(task, user.ID)
	return &v, nil
}

// List returns the user's own tasks and every task shared with their
// household, soonest due first.
func (uc *TaskUseCase) List(ctx context.Context, user *entities.User) ([]TaskView, error) {
	m, err := membershipOf(ctx, uc.households, user.ID)
	if err != nil {
		return nil, err
	}
	var householdID *string
	if m != nil {
		householdID = &m.HouseholdID
	}
	tasks, err := uc.tasks.ListVisible(ctx, user.ID, householdID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	views := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		views = append(views, uc.view(&tasks[i], user.ID))
	}
	return views, nil
}

// visible loads a task the user may see: their own, or one shared with their
// household. Anything else is reported as not found.
func (uc *TaskUseCase) visible(ctx context.Context, user *entities.User, id string) (*entities.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "task not found")
	}
	if task.UserID == user.ID {
		return task, nil
	}
	if task.HouseholdID != nil {
		m, err := membershipOf(ctx, uc.households, user.ID)
		if err != nil {
			return nil, err
		}
		if m != nil && m.HouseholdID == *task.HouseholdID {
			return task, nil
		}
	}
	return nil, apperr.NotFound("task not found")
}

func (uc *TaskUseCase) owned(ctx context.Context, user *entities.User, id string) (*entities.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "task not found")
	}
	if task.UserID != user.ID {
		return nil, apperr.NotFound("task not found")
	}
	return task, nil
}

func (uc *TaskUseCase) Get(ctx context.Context, user *entities.User, id string) (*TaskView, error) {
	task, err := uc.visible(ctx, user, id)
	if err != nil {
		return nil, err
	}
	v := uc.view(task, user.ID)
	return &v, nil
}

// Update edits a task. Only the owner may edit.
func (uc *TaskUseCase) Update(ctx context.Context, user *entities.User, id string, in TaskUpdate) (*TaskView, error) {
	task, err := uc.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}
	before, err := uc.affectedUsers(ctx, task)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if task.Title, err = validateTitle(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.Category != nil {
		if !in.Category.Valid() {
			return nil, apperr.Validation("category is invalid")
		}
		task.Category = *in.Category
	}
	if in.Notes != nil {
		if task.Notes, err = validateNotes(in.Notes); err != nil {
			return nil, err
		}
	}
	if in.DueDate != nil {
		due := schedule.DateIn(*in.DueDate, uc.clock.Location)
		task.NextDueDate = due.UTC()
		// A YEARLY task recurs on the month-day of its due date.
		if task.ScheduleType == schedule.Yearly {
			md := schedule.MonthDayValue(due.Month(), due.Day())
			task.ScheduleValue = &md
		}
	}
	if in.Shared != nil {
		if *in.Shared {
			m, err := membershipOf(ctx, uc.households, user.ID)
			if err != nil {
				return nil, err
			}
			if m == nil {
				return nil, apperr.Validation("join a household before sharing tasks")
			}
			task.HouseholdID = &m.HouseholdID
		} else {
			task.HouseholdID = nil
		}
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, apperr.Internal(err)
	}
	after, err := uc.affectedUsers(ctx, task)
	if err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(append(before, after...)...)

	v := uc.view(task, user.ID)
	return &v, nil
}

// Delete removes a task. Only the owner may delete.
func (uc *TaskUseCase) Delete(ctx context.Context, user *entities.User, id string) error {
	task, err := uc.owned(ctx, user, id)
	if err != nil {
		return err
	}
	affected, err := uc.affectedUsers(ctx, task)
	if err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, task.ID); err != nil {
		return apperr.Internal(err)
	}
	uc.invalidator.Invalidate(affected...)
	return nil
}

// Complete records a completion today. The counter increments on every
// call, including repeat completions on the same day. Interval tasks move
// their due date forward from today; FIXED_DATE tasks keep theirs.
// The owner and any member of the task's household may complete it.
func (uc *TaskUseCase) Complete(ctx context.Context, user *entities.User, id string) (*TaskView, error) {
	task, err := uc.visible(ctx, user, id)
	if err != nil {
		return nil, err
	}

	today := uc.clock.Today()
	next, err := schedule.NextDueDate(task.ScheduleType, task.ScheduleValue, task.NextDueDate, today)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("task %s: %w", task.ID, err))
	}

	updated, err := uc.tasks.MarkCompleted(ctx, task.ID, today.UTC(), next.UTC())
	if err != nil {
		return nil, notFoundOr(err, "task not found")
	}
	if err := uc.changed(ctx, updated, user.ID, "task_completed"); err != nil {
		return nil, err
	}

	v := uc.view(updated, user.ID)
	return &v, nil
}

// Uncomplete clears the last completion date. It leaves the counter and the
// due date untouched. Only the owner may uncomplete.
func (uc *TaskUseCase) Uncomplete(ctx context.Context, user *entities.User, id string) (*TaskView, error) {
	task, err := uc.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}
	updated, err := uc.tasks.ClearCompletion(ctx, task.ID)
	if err != nil {
		return nil, notFoundOr(err, "task not found")
	}
	if err := uc.changed(ctx, updated, user.ID, "task_uncompleted"); err != nil {
		return nil, err
	}

	v := uc.view(updated, user.ID)
	return &v, nil
}

// affectedUsers is the owner plus, for shared tasks, every household member.
func (uc *TaskUseCase) affectedUsers(ctx context.Context, task *entities.Task) ([]string, error) {
	if task.HouseholdID == nil {
		return []string{task.UserID}, nil
	}
	ids, err := memberIDs(ctx, uc.households, *task.HouseholdID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if id == task.UserID {
			return ids, nil
		}
	}
	return append(ids, task.UserID), nil
}

func (uc *TaskUseCase) changed(ctx context.Context, task *entities.Task, actorID, eventType string) error {
	affected, err := uc.affectedUsers(ctx, task)
	if err != nil {
		return err
	}
	uc.invalidator.Invalidate(affected...)

	if task.HouseholdID == nil {
		return nil
	}
	others := make([]string, 0, len(affected))
	for _, id := range affected {
		if id != actorID {
			others = append(others, id)
		}
	}
	uc.publisher.Broadcast(others, ws.Event{
		Type:        eventType,
		TaskID:      task.ID,
		HouseholdID: *task.HouseholdID,
		ActorID:     actorID,
		At:          uc.clock.Now().UTC(),
	})
	return nil
}
