package jobs

import (
	"fmt"
	"market-api/environment"
	"os"

	"github.com/robfig/cron/v3"
)

// All maintenance runs on cron schedules read from the environment.
// Every job is best-effort: errors are logged and the next occurrence
// re-attempts whatever is still pending - nothing here may take the
// process down.

// Runner owns the cron scheduler and the handles to the models
type Runner struct {
	env  *environment.Environment
	cron *cron.Cron
}

// NewRunner prepares the scheduler against the initialized environment
func NewRunner(env *environment.Environment) *Runner {
	return &Runner{
		env:  env,
		cron: cron.New(),
	}
}

// Start registers all jobs and launches the scheduler
// (the scheduler serializes nothing across jobs; each job is idempotent)
func (r *Runner) Start() error {

	jobs := []struct {
		name     string
		schedule string // env override
		fallback string
		run      func()
	}{
		{"archive", "CRON_ARCHIVE", "17 * * * *", r.ArchiveItems},
		{"views", "CRON_VIEWS", "*/5 * * * *", r.FlushViews},
		{"recount sections", "CRON_RECOUNT_SECTIONS", "42 3 * * *", r.RecountSections},
		{"recount users", "CRON_RECOUNT_USERS", "52 3 * * *", r.RecountUsers},
		{"purge drafts", "CRON_PURGE_DRAFTS", "10 4 * * *", r.PurgeDrafts},
		{"currency rates", "CRON_CURRENCY", "0 */6 * * *", r.FetchRates},
	}

	for _, job := range jobs {
		schedule := os.Getenv(job.schedule)
		if schedule == "" {
			schedule = job.fallback
		}

		_, err := r.cron.AddFunc(schedule, job.run)
		if err != nil {
			return fmt.Errorf("job %q: %v", job.name, err)
		}
	}

	r.cron.Start()
	return nil
}

// Stop lets running jobs finish and stops scheduling new ones
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}
