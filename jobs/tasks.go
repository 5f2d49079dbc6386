// Package jobs wires the vendor sync tasks into the Asynq queue and
// hosts the background worker.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskMaxPlayGoSync scrapes the lottery vendor's web console.
	TaskMaxPlayGoSync = "scrape:maxplaygo"
	// TaskSalesReportSync pulls the sales-reporting vendor's REST API.
	TaskSalesReportSync = "sync:salesreport"
)

// SyncPayload targets one calendar day in the vendors' DD-MM-YYYY form.
// An empty TargetDate means yesterday in the agencies' timezone.
type SyncPayload struct {
	TargetDate string `json:"target_date"`
}

// NewMaxPlayGoSyncTask constructs a console-scrape task.
func NewMaxPlayGoSyncTask(payload SyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMaxPlayGoSync, data), nil
}

// NewSalesReportSyncTask constructs a sales-report pull task.
func NewSalesReportSyncTask(payload SyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSalesReportSync, data), nil
}
