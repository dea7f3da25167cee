package calendar

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/turfbook/turf-booking-backend/internal/turf"
)

// Job keeps every turf's day-slot calendar topped up to the configured
// forward horizon. Turf creation seeds the first window; this job appends
// the days that fall into the window as time passes.
type Job struct {
	turfService turf.Service
	loc         *time.Location
	spec        string
	cron        *cron.Cron
}

// NewJob creates the calendar extension job. spec is a standard cron
// expression evaluated in the canonical booking zone.
func NewJob(turfService turf.Service, loc *time.Location, spec string) *Job {
	return &Job{
		turfService: turfService,
		loc:         loc,
		spec:        spec,
		cron:        cron.New(cron.WithLocation(loc)),
	}
}

// Start schedules the job and runs one extension pass immediately so a
// restarted service catches up without waiting for the next tick.
func (j *Job) Start(ctx context.Context) error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.Run(ctx) }); err != nil {
		return err
	}
	j.cron.Start()

	go j.Run(ctx)
	return nil
}

// Stop stops the scheduler and waits for a running pass to finish.
func (j *Job) Stop() {
	<-j.cron.Stop().Done()
}

// Run executes one extension pass over all turfs. Failures are logged per
// turf and do not stop the pass.
func (j *Job) Run(ctx context.Context) {
	ids, err := j.turfService.ListIDs(ctx)
	if err != nil {
		log.Printf("calendar job: list turfs failed: %v", err)
		return
	}

	today := time.Now().In(j.loc)
	extended := 0
	for _, id := range ids {
		n, err := j.turfService.ExtendCalendar(ctx, id, today)
		if err != nil {
			log.Printf("calendar job: extend turf %s failed: %v", id, err)
			continue
		}
		extended += n
	}

	if extended > 0 {
		log.Printf("calendar job: appended %d day(s) across %d turf(s)", extended, len(ids))
	}
}
