package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tahcohcat/coach-pro/config"
	"github.com/tahcohcat/coach-pro/internal/logger"
	"github.com/tahcohcat/coach-pro/internal/services"
)

// Executor carries out outreach instructions. Delivery is fire-and-forget
// and must tolerate duplicates.
type Executor interface {
	ExecuteOutreach(instructions []Outreach)
}

// Runner wires the three sweeps onto cron schedules. Sweeps only read
// state: all mutation stays with the message-handling path.
type Runner struct {
	users  *services.UserService
	ledger *services.LedgerService
	exec   Executor
	cfg    config.SchedulerConfig
	loc    *time.Location
	cron   *cron.Cron
	logger *logger.Log
}

func NewRunner(users *services.UserService, ledger *services.LedgerService, exec Executor, cfg config.SchedulerConfig, loc *time.Location) *Runner {
	if loc == nil {
		loc = time.Local
	}
	return &Runner{
		users:  users,
		ledger: ledger,
		exec:   exec,
		cfg:    cfg,
		loc:    loc,
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logger.New(),
	}
}

// Start registers the sweeps and starts the cron loop in its own
// goroutine.
func (r *Runner) Start() error {
	jobs := []struct {
		spec  string
		sweep func(Snapshot, time.Time) []Outreach
	}{
		{r.cfg.ReminderSpec, ReminderSweep},
		{r.cfg.ReengagementSpec, ReengagementSweep},
		{r.cfg.RecapSpec, RecapSweep},
	}

	for _, job := range jobs {
		sweep := job.sweep
		if _, err := r.cron.AddFunc(job.spec, func() { r.run(sweep) }); err != nil {
			return err
		}
	}

	r.cron.Start()
	r.logger.Info("Outreach scheduler started")
	return nil
}

// Stop halts the cron loop and waits for running jobs.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *Runner) run(sweep func(Snapshot, time.Time) []Outreach) {
	snap, err := r.snapshot()
	if err != nil {
		r.logger.WithError(err).Error("Outreach sweep skipped: snapshot failed")
		return
	}

	instructions := sweep(snap, time.Now().In(r.loc))
	if len(instructions) == 0 {
		return
	}

	r.logger.Infof("Outreach sweep produced %d instruction(s)", len(instructions))
	r.exec.ExecuteOutreach(instructions)
}

func (r *Runner) snapshot() (Snapshot, error) {
	users, err := r.users.ListAll()
	if err != nil {
		return Snapshot{}, err
	}
	counts, err := r.ledger.ActiveGoalCounts()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Users: users, ActiveGoals: counts}, nil
}
