package usecases

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"lifeops-server/apperr"
	"lifeops-server/entities"
	"lifeops-server/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteEveryThreeMonths(t *testing.T) {
	for _, zone := range []string{"UTC", "America/Los_Angeles", "Pacific/Auckland"} {
		t.Run(zone, func(t *testing.T) {
			ctx := context.Background()
			loc, err := time.LoadLocation(zone)
			require.NoError(t, err)
			f := newFixture(t, time.Date(2024, 1, 15, 7, 30, 0, 0, loc))

			u := f.register(t, "ana@example.com")
			u, err = f.auth.Login(ctx, "ana@example.com", "password123")
			require.NoError(t, err)

			created, err := f.tasks.Create(ctx, u, TaskInput{
				Title:         "Replace HVAC filter",
				Category:      entities.CategoryHome,
				ScheduleType:  schedule.EveryNMonths,
				ScheduleValue: intp(3),
			})
			require.NoError(t, err)
			assert.Equal(t, schedule.StatusPending, created.Status)

			done, err := f.tasks.Complete(ctx, u, created.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, done.CompletionCount)
			assert.Equal(t, schedule.StatusCompletedToday, done.Status)
			assert.Equal(t, time.Date(2024, 4, 15, 12, 0, 0, 0, loc), schedule.DateIn(done.NextDueDate, loc))
			require.NotNil(t, done.LastCompletedDate)
			assert.Equal(t, time.Date(2024, 1, 15, 12, 0, 0, 0, loc), schedule.DateIn(*done.LastCompletedDate, loc))

			reread, err := f.tasks.Get(ctx, u, created.ID)
			require.NoError(t, err)
			assert.Equal(t, time.Date(2024, 4, 15, 12, 0, 0, 0, loc), schedule.DateIn(reread.NextDueDate, loc))
		})
	}
}

func TestCompleteIncrementsEveryCall(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	u := f.register(t, "ana@example.com")

	due := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	task, err := f.tasks.Create(ctx, u, TaskInput{
		Title:        "Renew passport",
		Category:     entities.CategoryDocuments,
		ScheduleType: schedule.FixedDate,
		DueDate:      &due,
	})
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		v, err := f.tasks.Complete(ctx, u, task.ID)
		require.NoError(t, err)
		assert.Equal(t, i, v.CompletionCount)
		assert.Equal(t, time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC), v.NextDueDate.UTC())
	}

	v, err := f.tasks.Uncomplete(ctx, u, task.ID)
	require.NoError(t, err)
	assert.Nil(t, v.LastCompletedDate)
	assert.Equal(t, 3, v.CompletionCount)
	assert.Equal(t, time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC), v.NextDueDate.UTC())
	assert.Equal(t, schedule.StatusPending, v.Status)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	u := f.register(t, "ana@example.com")

	cases := map[string]TaskInput{
		"blank title":      {Title: "  ", Category: entities.CategoryHome, ScheduleType: schedule.EveryNMonths, ScheduleValue: intp(1)},
		"unknown category": {Title: "x", Category: "GARDEN", ScheduleType: schedule.EveryNMonths, ScheduleValue: intp(1)},
		"unknown schedule": {Title: "x", Category: entities.CategoryHome, ScheduleType: "WEEKLY"},
		"zero months":      {Title: "x", Category: entities.CategoryHome, ScheduleType: schedule.EveryNMonths, ScheduleValue: intp(0)},
		"missing date":     {Title: "x", Category: entities.CategoryHome, ScheduleType: schedule.FixedDate},
		"bad month day":    {Title: "x", Category: entities.CategoryHome, ScheduleType: schedule.Yearly, MonthDay: "02-30"},
		"shared alone":     {Title: "x", Category: entities.CategoryHome, ScheduleType: schedule.EveryNMonths, ScheduleValue: intp(1), Shared: true},
	}
	for name, in := range cases {
		_, err := f.tasks.Create(ctx, u, in)
		assert.True(t, apperr.Is(err, apperr.KindValidation), name)
	}

	long := make([]rune, 1001)
	for i := range long {
		long[i] = 'n'
	}
	notes := string(long)
	_, err := f.tasks.Create(ctx, u, TaskInput{Title: "x", Category: entities.CategoryHome, ScheduleType: schedule.EveryNMonths, ScheduleValue: intp(1), Notes: &notes})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestYearlyTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	u := f.register(t, "ana@example.com")

	v, err := f.tasks.Create(ctx, u, TaskInput{
		Title:        "Car registration",
		Category:     entities.CategoryVehicle,
		ScheduleType: schedule.Yearly,
		MonthDay:     "03-10",
	})
	require.NoError(t, err)
	assert.Equal(t, "03-10", v.MonthDay)
	assert.Equal(t, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), v.NextDueDate.UTC())

	done, err := f.tasks.Complete(ctx, u, v.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), done.NextDueDate.UTC())
}

func TestUpdateYearlyDueDateMovesMonthDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	u := f.register(t, "ana@example.com")

	v, err := f.tasks.Create(ctx, u, TaskInput{Title: "Insurance", Category: entities.CategoryFinance, ScheduleType: schedule.Yearly, MonthDay: "03-10"})
	require.NoError(t, err)

	due := time.Date(2024, 9, 20, 0, 0, 0, 0, time.UTC)
	updated, err := f.tasks.Update(ctx, u, v.ID, TaskUpdate{DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, "09-20", updated.MonthDay)
	assert.Equal(t, time.Date(2024, 9, 20, 12, 0, 0, 0, time.UTC), updated.NextDueDate.UTC())

	got, err := f.tasks.Get(ctx, u, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "09-20", got.MonthDay)
}

func TestFreePlanTaskLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	u := f.register(t, "ana@example.com")

	in := TaskInput{Title: "t", Category: entities.CategoryOther, ScheduleType: schedule.EveryNMonths, ScheduleValue: intp(1)}
	for i := 0; i < 3; i++ {
		_, err := f.tasks.Create(ctx, u, in)
		require.NoError(t, err)
	}
	_, err := f.tasks.Create(ctx, u, in)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	f.upgrade(t, u)
	_, err = f.tasks.Create(ctx, u, in)
	assert.NoError(t, err)
}

func TestTaskVisibilityAcrossHousehold(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	owner := f.register(t, "owner@example.com")
	member := f.register(t, "member@example.com")
	stranger := f.register(t, "stranger@example.com")

	_, err := f.households.Create(ctx, owner, "Home")
	require.NoError(t, err)
	invite, err := f.households.CreateInvite(ctx, owner)
	require.NoError(t, err)
	_, err = f.households.Redeem(ctx, member, invite.Token)
	require.NoError(t, err)

	shared, err := f.tasks.Create(ctx, owner, TaskInput{
		Title: "Smoke alarms", Category: entities.CategoryHome,
		ScheduleType: schedule.EveryNMonths, ScheduleValue: intp(6), Shared: true,
	})
	require.NoError(t, err)
	private, err := f.tasks.Create(ctx, owner, TaskInput{
		Title: "Dentist", Category: entities.CategoryHealth,
		ScheduleType: schedule.EveryNMonths, ScheduleValue: intp(6),
	})
	require.NoError(t, err)

	list, err := f.tasks.List(ctx, member)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, shared.ID, list[0].ID)
	assert.False(t, list[0].Owned)

	// members may complete shared tasks; the owner is notified
	done, err := f.tasks.Complete(ctx, member, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, done.CompletionCount)
	require.Len(t, f.published.events, 1)
	assert.Equal(t, "task_completed", f.published.events[0].Type)
	assert.Equal(t, []string{owner.ID}, f.published.to[0])

	_, err = f.tasks.Uncomplete(ctx, member, shared.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = f.tasks.Update(ctx, member, shared.ID, TaskUpdate{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, apperr.Is(f.tasks.Delete(ctx, member, shared.ID), apperr.KindNotFound))

	_, err = f.tasks.Get(ctx, member, private.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = f.tasks.Complete(ctx, stranger, shared.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	// leaving un-shares the leaver's tasks only
	require.NoError(t, f.households.Leave(ctx, member))
	list, err = f.tasks.List(ctx, member)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	u := f.register(t, "ana@example.com")

	v, err := f.tasks.Create(ctx, u, TaskInput{Title: "Oil", Category: entities.CategoryVehicle, ScheduleType: schedule.EveryNMonths, ScheduleValue: intp(6)})
	require.NoError(t, err)

	title := "Oil change"
	cat := entities.CategoryOther
	due := time.Date(2024, 7, 4, 23, 0, 0, 0, time.UTC)
	updated, err := f.tasks.Update(ctx, u, v.ID, TaskUpdate{Title: &title, Category: &cat, DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, "Oil change", updated.Title)
	assert.Equal(t, entities.CategoryOther, updated.Category)
	assert.Equal(t, time.Date(2024, 7, 4, 12, 0, 0, 0, time.UTC), updated.NextDueDate.UTC())

	require.NoError(t, f.tasks.Delete(ctx, u, v.ID))
	_, err = f.tasks.Get(ctx, u, v.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
