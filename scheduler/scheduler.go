// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// Scheduler manages background jobs
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// New creates a new scheduler
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler stopped")
}

// AddJob registers job with a cron schedule, with seconds.
// Schedule examples:
//   - "0 */30 * * * *" - Every 30 minutes
//   - "@every 30m"     - Every 30 minutes, from start
//   - "0 30 13 * * MON-FRI" - After the Taiwan market close
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.log.Debug().Str("job", job.Name()).Msg("running job")
		if err := job.Run(); err != nil {
			s.log.Error().Err(err).Str("job", job.Name()).Msg("job failed")
			return
		}
		s.log.Debug().Str("job", job.Name()).Msg("job completed")
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("schedule", schedule).Str("job", job.Name()).Msg("job registered")
	return nil
}

// RunNow executes a job immediately (outside schedule)
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("running job immediately")
	return job.Run()
}

// Refresher is what SnapshotJob refreshes, typically a
// *twfolio.PriceSnapshot.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// SnapshotJob reloads the price snapshot.
type SnapshotJob struct {
	snapshot Refresher
	timeout  time.Duration
}

// NewSnapshotJob returns a job refreshing snapshot, each run bounded by
// timeout.
func NewSnapshotJob(snapshot Refresher, timeout time.Duration) *SnapshotJob {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &SnapshotJob{snapshot: snapshot, timeout: timeout}
}

func (j *SnapshotJob) Name() string { return "price_snapshot" }

func (j *SnapshotJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	return j.snapshot.Refresh(ctx)
}
