package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/domain/services"

	"github.com/robfig/cron/v3"
)

// DefaultBoardRefreshSpec runs the refresh at the start of every minute.
const DefaultBoardRefreshSpec = "0 * * * * *"

const boardRefreshTimeout = 30 * time.Second

// BoardRefresher recomputes and stores the board.
type BoardRefresher interface {
	Refresh(ctx context.Context) (services.Board, error)
}

// BoardRefreshJob rebuilds the board on a schedule. Commits already refresh
// it, so the schedule mainly expires alerts that aged out of the alert window
// while nothing was written.
type BoardRefreshJob struct {
	refresher BoardRefresher
	spec      string
	cron      *cron.Cron
	logger    *slog.Logger

	// warmup tracks the refresh Start runs outside the schedule.
	warmup sync.WaitGroup
}

// NewBoardRefreshJob creates the job. spec is a six-field cron expression
// (seconds first) or a descriptor such as "@every 5m"; empty means
// DefaultBoardRefreshSpec.
func NewBoardRefreshJob(refresher BoardRefresher, spec string, logger *slog.Logger) *BoardRefreshJob {
	if spec == "" {
		spec = DefaultBoardRefreshSpec
	}
	return &BoardRefreshJob{
		refresher: refresher,
		spec:      spec,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "board_refresh_job"),
	}
}

func (j *BoardRefreshJob) Name() string {
	return "board refresh"
}

// Start schedules the job and runs one refresh immediately so the board is
// warm before the first tick.
func (j *BoardRefreshJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, j.run); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", j.spec, err)
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Board refresh job started", "schedule", j.spec)
	j.warmup.Add(1)
	go func() {
		defer j.warmup.Done()
		j.run()
	}()
	return nil
}

// Stop stops scheduling and waits for running refreshes, the warm-up one
// included, to finish.
func (j *BoardRefreshJob) Stop() {
	<-j.cron.Stop().Done()
	j.warmup.Wait()
	j.logger.InfoContext(context.Background(), "Board refresh job stopped")
}

func (j *BoardRefreshJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), boardRefreshTimeout)
	defer cancel()

	board, err := j.refresher.Refresh(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Board refresh job failed", "error", err)
		return
	}
	j.logger.DebugContext(ctx, "Board refreshed", "alerts", len(board.Alerts))
}
