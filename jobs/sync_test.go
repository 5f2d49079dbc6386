package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/lanave/cuadre/internal/observability"
	"github.com/lanave/cuadre/internal/scrape"
	_ "github.com/lanave/cuadre/testing"
)

type upsertCall struct {
	agencyID    string
	sessionDate string
	systemID    string
	salesBs     float64
	prizesBs    float64
}

type fakeStore struct {
	mappings map[string]map[string]string
	systems  map[string]string
	upserts  []upsertCall
	fail     error
}

func (f *fakeStore) AgencyMapping(_ context.Context, vendor string) (map[string]string, error) {
	return f.mappings[vendor], nil
}

func (f *fakeStore) SystemIDByCode(_ context.Context, codes ...string) (string, error) {
	for _, code := range codes {
		if id, ok := f.systems[code]; ok {
			return id, nil
		}
	}
	return "", errors.New("no system")
}

func (f *fakeStore) UpsertSummary(_ context.Context, agencyID, sessionDate, systemID string, salesBs, prizesBs float64) error {
	if f.fail != nil {
		return f.fail
	}
	f.upserts = append(f.upserts, upsertCall{agencyID, sessionDate, systemID, salesBs, prizesBs})
	return nil
}

type fakeConsole struct {
	day scrape.DayFigures
	err error
}

func (f *fakeConsole) FetchDay(context.Context, string) (scrape.DayFigures, error) {
	return f.day, f.err
}

type fakeReport struct {
	comercios []scrape.Comercio
	err       error
}

func (f *fakeReport) FetchDay(context.Context, string) ([]scrape.Comercio, error) {
	return f.comercios, f.err
}

type fakeBumper struct{ bumps int }

func (f *fakeBumper) Bump(context.Context) error {
	f.bumps++
	return nil
}

func maxPlayGoTask(t *testing.T, payload SyncPayload) *asynq.Task {
	t.Helper()
	task, err := NewMaxPlayGoSyncTask(payload)
	require.NoError(t, err)
	return task
}

func TestMaxPlayGoSyncUpsertsMappedAgencies(t *testing.T) {
	store := &fakeStore{
		mappings: map[string]map[string]string{
			VendorMaxPlayGo: {"NAVE BARALT": "a1", "NAVE CENTRO": "a2"},
		},
		systems: map[string]string{"FIGURAS": "sys-fig", "LOTERIAS": "sys-lot"},
	}
	bumper := &fakeBumper{}
	job := &MaxPlayGoSyncJob{
		Store: store,
		Scraper: &fakeConsole{day: scrape.DayFigures{
			TargetDate: "20-04-2025",
			Figuras: []scrape.AgencyFigures{
				{AgencyName: "NAVE BARALT", Sales: 1000, Prizes: 200},
				{AgencyName: "NAVE DESCONOCIDA", Sales: 50, Prizes: 0},
			},
			Loterias: []scrape.AgencyFigures{
				{AgencyName: "NAVE CENTRO", Sales: 300, Prizes: 100},
			},
		}},
		Cache:   bumper,
		Logger:  slog.Default(),
		Metrics: observability.NewMetrics(),
	}

	err := job.Handle(context.Background(), maxPlayGoTask(t, SyncPayload{TargetDate: "20-04-2025"}))
	require.NoError(t, err)

	require.Len(t, store.upserts, 2)
	require.Equal(t, upsertCall{"a1", "2025-04-20", "sys-fig", 1000, 200}, store.upserts[0])
	require.Equal(t, upsertCall{"a2", "2025-04-20", "sys-lot", 300, 100}, store.upserts[1])
	require.Equal(t, 1, bumper.bumps)
}

func TestMaxPlayGoSyncSkipsRetryOnScrapeFailure(t *testing.T) {
	job := &MaxPlayGoSyncJob{
		Store:   &fakeStore{systems: map[string]string{"FIGURAS": "f", "LOTERIAS": "l"}},
		Scraper: &fakeConsole{err: errors.New("console down")},
		Logger:  slog.Default(),
		Metrics: observability.NewMetrics(),
	}
	err := job.Handle(context.Background(), maxPlayGoTask(t, SyncPayload{TargetDate: "20-04-2025"}))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestMaxPlayGoSyncRejectsMalformedPayload(t *testing.T) {
	job := &MaxPlayGoSyncJob{Logger: slog.Default(), Metrics: observability.NewMetrics()}
	task := asynq.NewTask(TaskMaxPlayGoSync, []byte("not json"))
	err := job.Handle(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestMaxPlayGoSyncFailsWhenNothingMapped(t *testing.T) {
	job := &MaxPlayGoSyncJob{
		Store: &fakeStore{
			mappings: map[string]map[string]string{},
			systems:  map[string]string{"FIGURAS": "f", "LOTERIAS": "l"},
		},
		Scraper: &fakeConsole{day: scrape.DayFigures{
			Figuras: []scrape.AgencyFigures{{AgencyName: "NAVE BARALT", Sales: 10}},
		}},
		Logger:  slog.Default(),
		Metrics: observability.NewMetrics(),
	}
	err := job.Handle(context.Background(), maxPlayGoTask(t, SyncPayload{TargetDate: "20-04-2025"}))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestSalesReportSyncUpsertsByShopName(t *testing.T) {
	store := &fakeStore{
		mappings: map[string]map[string]string{
			VendorSalesReport: {"LA NAVE BARALT": "a1"},
		},
		systems: map[string]string{"SOURCES": "sys-src"},
	}
	bumper := &fakeBumper{}
	job := &SalesReportSyncJob{
		Store: store,
		Fetcher: &fakeReport{comercios: []scrape.Comercio{
			{Comercio: "LA NAVE BARALT", Venta: 870.5, Premio: 120},
			{Comercio: "OTRO COMERCIO", Venta: 10, Premio: 0},
		}},
		Cache:   bumper,
		Logger:  slog.Default(),
		Metrics: observability.NewMetrics(),
	}

	task, err := NewSalesReportSyncTask(SyncPayload{TargetDate: "20-04-2025"})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	require.Len(t, store.upserts, 1)
	require.Equal(t, upsertCall{"a1", "2025-04-20", "sys-src", 870.5, 120}, store.upserts[0])
	require.Equal(t, 1, bumper.bumps)
}

func TestSalesReportSyncPropagatesUpsertFailure(t *testing.T) {
	store := &fakeStore{
		mappings: map[string]map[string]string{
			VendorSalesReport: {"LA NAVE BARALT": "a1"},
		},
		systems: map[string]string{"SOURCES": "sys-src"},
		fail:    errors.New("db down"),
	}
	job := &SalesReportSyncJob{
		Store:   store,
		Fetcher: &fakeReport{comercios: []scrape.Comercio{{Comercio: "LA NAVE BARALT", Venta: 1}}},
		Logger:  slog.Default(),
		Metrics: observability.NewMetrics(),
	}
	task, err := NewSalesReportSyncTask(SyncPayload{TargetDate: "20-04-2025"})
	require.NoError(t, err)
	require.ErrorIs(t, job.Handle(context.Background(), task), asynq.SkipRetry)
}
