package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/coinplan/internal/db"
	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/alexanderramin/coinplan/internal/repository"
	"github.com/alexanderramin/coinplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

// fixture bundles an in-memory database with repositories and services
// wired the way main wires them.
type fixture struct {
	db         *sql.DB
	uow        db.UnitOfWork
	currencies *repository.SQLiteCurrencyRepo
	events     *repository.SQLiteEventRepo
	settings   *repository.SQLiteSettingsRepo
	observer   *recordingObserver

	Currencies CurrencyService
	Queue      QueueService
	Plan       PlanService
	Import     ImportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	f := &fixture{
		db:         database,
		uow:        testutil.NewTestUoW(database),
		currencies: repository.NewSQLiteCurrencyRepo(database),
		events:     repository.NewSQLiteEventRepo(database),
		settings:   repository.NewSQLiteSettingsRepo(database),
		observer:   &recordingObserver{},
	}
	f.rewire(f.uow)
	return f
}

// rewire rebuilds the services around uow, used to inject failures.
func (f *fixture) rewire(uow db.UnitOfWork) {
	defaults := domain.DefaultPlannerSettings()
	f.Currencies = NewCurrencyService(f.currencies, uow, f.observer)
	f.Queue = NewQueueService(f.events, uow, f.observer)
	f.Plan = NewPlanService(f.currencies, f.events, f.settings, defaults, f.observer)
	f.Import = NewImportService(f.currencies, f.events, f.settings, defaults, uow, f.observer)
}

func (f *fixture) addCurrency(t *testing.T, id string, balance, weekly float64) {
	t.Helper()
	require.NoError(t, f.Currencies.Set(context.Background(), testutil.NewTestIncome(id, balance, weekly)))
}

func (f *fixture) addEvent(t *testing.T, name, currency string, amount float64, lock bool) *domain.SpendingEvent {
	t.Helper()
	e, err := f.Queue.Add(context.Background(), testutil.NewTestEvent(name, currency, amount), lock)
	require.NoError(t, err)
	return e
}

func (f *fixture) names(t *testing.T) []string {
	t.Helper()
	q, err := f.Queue.List(context.Background())
	require.NoError(t, err)
	out := make([]string, len(q))
	for i, e := range q {
		out[i] = e.Name
	}
	return out
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}
