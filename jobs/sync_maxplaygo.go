package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/lanave/cuadre/internal/observability"
	"github.com/lanave/cuadre/internal/scrape"
	"github.com/lanave/cuadre/internal/shared"
)

// ConsoleScraper is the vendor console client, fetched per task run.
type ConsoleScraper interface {
	FetchDay(ctx context.Context, targetDate string) (scrape.DayFigures, error)
}

// CacheBumper invalidates the weekly aggregation cache after new vendor
// rows land.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// MaxPlayGoSyncJob scrapes the console and upserts daily summary rows
// for both game categories.
type MaxPlayGoSyncJob struct {
	Store   SyncStore
	Scraper ConsoleScraper
	Cache   CacheBumper
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Handle executes one scrape run. Vendor-side failures are terminal:
// the run is re-triggered manually or by the next cron tick, never by
// the queue's retry policy.
func (j *MaxPlayGoSyncJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.TargetDate == "" {
		payload.TargetDate = defaultTargetDate()
	}

	if err := j.run(ctx, payload.TargetDate); err != nil {
		j.Metrics.RecordSync(TaskMaxPlayGoSync, "error")
		j.Logger.Error("maxplaygo sync failed", slog.Any("error", err), slog.String("target_date", payload.TargetDate))
		return fmt.Errorf("%w: %s", asynq.SkipRetry, err)
	}
	j.Metrics.RecordSync(TaskMaxPlayGoSync, "ok")
	return nil
}

func (j *MaxPlayGoSyncJob) run(ctx context.Context, targetDate string) error {
	isoDate, err := scrape.ParseTargetDate(targetDate)
	if err != nil {
		return err
	}

	day, err := j.Scraper.FetchDay(ctx, targetDate)
	if err != nil {
		return err
	}

	mapping, err := j.Store.AgencyMapping(ctx, VendorMaxPlayGo)
	if err != nil {
		return err
	}
	figurasID, err := j.Store.SystemIDByCode(ctx, "FIGURAS", "ANIMALITOS")
	if err != nil {
		return err
	}
	loteriasID, err := j.Store.SystemIDByCode(ctx, "LOTERIAS")
	if err != nil {
		return err
	}

	updated := 0
	var skipped []string
	write := func(systemID string, figures []scrape.AgencyFigures) error {
		for _, fig := range figures {
			agencyID, ok := mapping[fig.AgencyName]
			if !ok {
				skipped = append(skipped, fig.AgencyName)
				continue
			}
			if err := j.Store.UpsertSummary(ctx, agencyID, isoDate, systemID, fig.Sales, fig.Prizes); err != nil {
				return fmt.Errorf("upsert %s: %w", fig.AgencyName, err)
			}
			updated++
		}
		return nil
	}
	if err := write(figurasID, day.Figuras); err != nil {
		return err
	}
	if err := write(loteriasID, day.Loterias); err != nil {
		return err
	}

	if j.Cache != nil && updated > 0 {
		if err := j.Cache.Bump(ctx); err != nil {
			j.Logger.Warn("cache bump failed", slog.Any("error", err))
		}
	}
	j.Logger.Info("maxplaygo sync complete",
		slog.String("target_date", targetDate),
		slog.Int("updated", updated),
		slog.Any("unmapped", skipped))
	if updated == 0 {
		return errors.New("no mapped agencies in scraped data")
	}
	return nil
}

// defaultTargetDate is yesterday in the agencies' timezone, the day the
// nightly cron reconciles.
func defaultTargetDate() string {
	loc, err := time.LoadLocation(shared.TimezoneName)
	if err != nil {
		loc = time.UTC
	}
	return time.Now().In(loc).AddDate(0, 0, -1).Format("02-01-2006")
}
