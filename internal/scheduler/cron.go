package scheduler

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CronSpecs holds the five schedules. Zero values fall back to the
// defaults below.
type CronSpecs struct {
	Soon     string // daily soon-threshold scan
	Critical string // daily critical-threshold scan
	Expired  string // daily expired scan + status flip
	Status   string // hourly status housekeeping
	Cleanup  string // weekly notification retention purge
}

func DefaultCronSpecs() CronSpecs {
	return CronSpecs{
		Soon:     "0 8 * * *",
		Critical: "0 9 * * *",
		Expired:  "0 10 * * *",
		Status:   "@hourly",
		Cleanup:  "0 0 * * 0",
	}
}

func (c *CronSpecs) applyDefaults() {
	d := DefaultCronSpecs()
	if c.Soon == "" {
		c.Soon = d.Soon
	}
	if c.Critical == "" {
		c.Critical = d.Critical
	}
	if c.Expired == "" {
		c.Expired = d.Expired
	}
	if c.Status == "" {
		c.Status = d.Status
	}
	if c.Cleanup == "" {
		c.Cleanup = d.Cleanup
	}
}

// Start registers the five jobs and starts the cron runner. The returned
// cron can be stopped on shutdown.
func Start(s *Scheduler, specs CronSpecs, log *zap.Logger) (*cron.Cron, error) {
	specs.applyDefaults()

	c := cron.New()

	jobs := []struct {
		spec string
		name string
		fn   func()
	}{
		{specs.Soon, "check_expiring", s.CheckExpiringItems},
		{specs.Critical, "check_critical", s.CheckCriticalExpiringItems},
		{specs.Expired, "check_expired", s.CheckExpiredItems},
		{specs.Status, "update_expired_status", s.UpdateExpiredItemsStatus},
		{specs.Cleanup, "cleanup_notifications", s.CleanupOldNotifications},
	}

	for _, job := range jobs {
		if _, err := c.AddFunc(job.spec, job.fn); err != nil {
			return nil, err
		}
		log.Info("registered scheduled job",
			zap.String("job", job.name),
			zap.String("spec", job.spec))
	}

	c.Start()
	return c, nil
}
