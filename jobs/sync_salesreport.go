package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/lanave/cuadre/internal/observability"
	"github.com/lanave/cuadre/internal/scrape"
)

// ReportFetcher is the consolidated sales API client.
type ReportFetcher interface {
	FetchDay(ctx context.Context, targetDate string) ([]scrape.Comercio, error)
}

// SalesReportSyncJob pulls the consolidated per-shop report and upserts
// daily summary rows for the reporting vendor's system.
type SalesReportSyncJob struct {
	Store   SyncStore
	Fetcher ReportFetcher
	Cache   CacheBumper
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

func (j *SalesReportSyncJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.TargetDate == "" {
		payload.TargetDate = defaultTargetDate()
	}

	if err := j.run(ctx, payload.TargetDate); err != nil {
		j.Metrics.RecordSync(TaskSalesReportSync, "error")
		j.Logger.Error("sales report sync failed", slog.Any("error", err), slog.String("target_date", payload.TargetDate))
		return fmt.Errorf("%w: %s", asynq.SkipRetry, err)
	}
	j.Metrics.RecordSync(TaskSalesReportSync, "ok")
	return nil
}

func (j *SalesReportSyncJob) run(ctx context.Context, targetDate string) error {
	isoDate, err := scrape.ParseTargetDate(targetDate)
	if err != nil {
		return err
	}

	comercios, err := j.Fetcher.FetchDay(ctx, targetDate)
	if err != nil {
		return err
	}

	mapping, err := j.Store.AgencyMapping(ctx, VendorSalesReport)
	if err != nil {
		return err
	}
	systemID, err := j.Store.SystemIDByCode(ctx, "SOURCES", "SOURCE")
	if err != nil {
		return err
	}

	updated := 0
	var skipped []string
	for _, c := range comercios {
		agencyID, ok := mapping[c.Comercio]
		if !ok {
			skipped = append(skipped, c.Comercio)
			continue
		}
		if err := j.Store.UpsertSummary(ctx, agencyID, isoDate, systemID, c.Venta, c.Premio); err != nil {
			return fmt.Errorf("upsert %s: %w", c.Comercio, err)
		}
		updated++
	}

	if j.Cache != nil && updated > 0 {
		if err := j.Cache.Bump(ctx); err != nil {
			j.Logger.Warn("cache bump failed", slog.Any("error", err))
		}
	}
	j.Logger.Info("sales report sync complete",
		slog.String("target_date", targetDate),
		slog.Int("updated", updated),
		slog.Any("unmapped", skipped))
	if updated == 0 {
		return errors.New("no mapped shops in report data")
	}
	return nil
}
