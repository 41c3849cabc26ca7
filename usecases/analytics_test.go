package usecases

import (
	"context"
	"testing"
	"time"

	"lifeops-server/apperr"
	"lifeops-server/entities"
	"lifeops-server/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsRequiresPro(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	u := f.register(t, "ana@example.com")

	_, err := f.analytics.Report(ctx, u)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	f.upgrade(t, u)
	report, err := f.analytics.Report(ctx, u)
	require.NoError(t, err)
	assert.Zero(t, report.TotalTasks)
	assert.Len(t, report.ByCategory, len(entities.Categories))
}

func TestAnalyticsCacheIsInvalidatedByWrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	u := f.register(t, "ana@example.com")
	f.upgrade(t, u)

	first, err := f.analytics.Report(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, 0, first.TotalTasks)

	task, err := f.tasks.Create(ctx, u, TaskInput{Title: "Taxes", Category: entities.CategoryFinance, ScheduleType: schedule.Yearly, MonthDay: "06-15"})
	require.NoError(t, err)
	_, err = f.tasks.Complete(ctx, u, task.ID)
	require.NoError(t, err)

	second, err := f.analytics.Report(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, 1, second.TotalTasks)
	assert.Equal(t, 1, second.TotalCompletions)
	assert.Equal(t, 1, second.CompletedToday)

	assert.Equal(t, 1, f.reports.Stats()["entries"])
	_, err = f.tasks.Uncomplete(ctx, u, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, f.reports.Stats()["entries"])

	third, err := f.analytics.Report(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, 0, third.CompletedToday)
	assert.Equal(t, 1, third.TotalCompletions)
}

func TestSummarize(t *testing.T) {
	today := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return today.AddDate(0, 0, d) }
	completed := today

	report := Summarize([]entities.Task{
		{Category: entities.CategoryHome, NextDueDate: day(-3), CompletionCount: 2},
		{Category: entities.CategoryHome, NextDueDate: day(10)},
		{Category: entities.CategoryHealth, NextDueDate: day(31), CompletionCount: 1, LastCompletedDate: &completed},
		{Category: entities.CategoryFinance, NextDueDate: day(30)},
	}, today)

	assert.Equal(t, 4, report.TotalTasks)
	assert.Equal(t, 3, report.TotalCompletions)
	assert.Equal(t, 1, report.Overdue)
	assert.Equal(t, 2, report.DueSoon)
	assert.Equal(t, 1, report.CompletedToday)
	assert.Equal(t, CategoryStats{Category: entities.CategoryHome, Tasks: 2, Completions: 2}, report.ByCategory[0])
}
