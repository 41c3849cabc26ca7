package usecases

import (
	"context"
	"time"

	"lifeops-server/apperr"
	"lifeops-server/cache"
	"lifeops-server/entities"
	"lifeops-server/repositories"
	"lifeops-server/schedule"
)

// DueSoonDays is the window counted as "due soon" in reports.
const DueSoonDays = 30

type CategoryStats struct {
	Category    entities.Category `json:"category"`
	Tasks       int               `json:"tasks"`
	Completions int               `json:"completions"`
}

type AnalyticsReport struct {
	TotalTasks       int             `json:"totalTasks"`
	TotalCompletions int             `json:"totalCompletions"`
	Overdue          int             `json:"overdue"`
	DueSoon          int             `json:"dueSoon"`
	CompletedToday   int             `json:"completedToday"`
	ByCategory       []CategoryStats `json:"byCategory"`
	GeneratedAt      time.Time       `json:"generatedAt"`
}

// AnalyticsUseCase builds the Pro-only task report.
type AnalyticsUseCase struct {
	tasks      repositories.TaskRepository
	households repositories.HouseholdRepository
	cache      *cache.ReportCache[AnalyticsReport]
	clock      Clock
}

func NewAnalyticsUseCase(tasks repositories.TaskRepository, households repositories.HouseholdRepository, reports *cache.ReportCache[AnalyticsReport], clock Clock) *AnalyticsUseCase {
	return &AnalyticsUseCase{tasks: tasks, households: households, cache: reports, clock: clock}
}

func (uc *AnalyticsUseCase) Report(ctx context.Context, user *entities.User) (*AnalyticsReport, error) {
	if user.Plan != entities.PlanPro {
		return nil, apperr.Forbidden("analytics requires the Pro plan")
	}
	if r, ok := uc.cache.Get(user.ID); ok {
		return &r, nil
	}
	gen := uc.cache.Generation(user.ID)

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

	report := Summarize(tasks, uc.clock.Today())
	report.GeneratedAt = uc.clock.Now().UTC()
	uc.cache.SetIfCurrent(user.ID, gen, report)
	return &report, nil
}

// Summarize aggregates tasks as of today. Every category appears in the
// result, in declaration order.
func Summarize(tasks []entities.Task, today time.Time) AnalyticsReport {
	byCat := make(map[entities.Category]*CategoryStats, len(entities.Categories))
	report := AnalyticsReport{ByCategory: make([]CategoryStats, len(entities.Categories))}
	for i, c := range entities.Categories {
		report.ByCategory[i].Category = c
		byCat[c] = &report.ByCategory[i]
	}

	for _, t := range tasks {
		report.TotalTasks++
		report.TotalCompletions += t.CompletionCount
		if s, ok := byCat[t.Category]; ok {
			s.Tasks++
			s.Completions += t.CompletionCount
		}
		switch schedule.StatusOf(t.NextDueDate, t.LastCompletedDate, today) {
		case schedule.StatusOverdue:
			report.Overdue++
		case schedule.StatusCompletedToday:
			report.CompletedToday++
		}
		if d := schedule.DaysUntil(t.NextDueDate, today); d >= 0 && d <= DueSoonDays {
			report.DueSoon++
		}
	}
	return report
}
