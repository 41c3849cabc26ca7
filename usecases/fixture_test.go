package usecases

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"lifeops-server/auth"
	"lifeops-server/cache"
	"lifeops-server/db"
	"lifeops-server/entities"
	"lifeops-server/repositories"
	"lifeops-server/ws"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.Event
	to     [][]string
}

func (p *recordingPublisher) Broadcast(userIDs []string, ev ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	p.to = append(p.to, userIDs)
}

type fixture struct {
	clock      *fakeClock
	users      repositories.UserRepository
	auth       *AuthUseCase
	tasks      *TaskUseCase
	households *HouseholdUseCase
	analytics  *AnalyticsUseCase
	settings   *SettingsUseCase
	reports    *cache.ReportCache[AnalyticsReport]
	published  *recordingPublisher
}

func newFixture(t *testing.T, start time.Time) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := db.OpenSQLite("file:uc_" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := database.GetDB().DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	fc := &fakeClock{now: start}
	clock := Clock{Now: fc.Now, Location: start.Location()}

	users := repositories.NewUserPgRepository(database)
	sessions := repositories.NewSessionPgRepository(database)
	tasks := repositories.NewTaskPgRepository(database)
	households := repositories.NewHouseholdPgRepository(database)

	reports := cache.NewReportCache[AnalyticsReport](time.Minute).WithClock(fc.Now)
	pub := &recordingPublisher{}
	tokens := auth.NewTokenIssuer(strings.Repeat("k", 32), 15*time.Minute, 24*time.Hour).WithClock(fc.Now)

	return &fixture{
		clock:      fc,
		users:      users,
		auth:       NewAuthUseCase(users, sessions, tokens, time.Hour, clock),
		tasks:      NewTaskUseCase(tasks, households, clock, 3).WithPublisher(pub).WithInvalidator(reports),
		households: NewHouseholdUseCase(households, clock, 7*24*time.Hour).WithInvalidator(reports),
		analytics:  NewAnalyticsUseCase(tasks, households, reports, clock),
		settings:   NewSettingsUseCase(users).WithInvalidator(reports),
		reports:    reports,
		published:  pub,
	}
}

func (f *fixture) register(t *testing.T, email string) *entities.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), strings.Split(email, "@")[0], email, "password123")
	require.NoError(t, err)
	return u
}

func (f *fixture) upgrade(t *testing.T, u *entities.User) {
	t.Helper()
	_, err := f.settings.ChangePlan(context.Background(), u, entities.PlanPro)
	require.NoError(t, err)
}

func intp(v int) *int { return &v }
