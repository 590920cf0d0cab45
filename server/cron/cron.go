package cron

import (
	"time"

	"github.com/go-co-op/gocron"
)

// NewCronScheduler builds a scheduler pinned to the configured time zone,
// falling back to UTC when the zone cannot be loaded.
func NewCronScheduler(timeZoneArg string) *gocron.Scheduler {
	timeZone, err := time.LoadLocation(timeZoneArg)
	if err != nil {
		timeZone = time.UTC
	}

	scheduler := gocron.NewScheduler(timeZone)
	scheduler.TagsUnique()

	return scheduler
}
