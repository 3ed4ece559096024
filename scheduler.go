package main

import (
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ParseRefreshSchedule parses a standard 5-field cron expression
// (minute hour day-of-month month day-of-week).
// Examples: "0 6 * * *" (daily 6am), "0 6 * * 1" (Mondays 6am).
func ParseRefreshSchedule(schedule string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return parser.Parse(schedule)
}

// StartRefreshScheduler re-runs the analysis pipeline on a cron schedule.
// Returns false when no schedule is configured or it does not parse, in
// which case the caller runs once and exits.
func StartRefreshScheduler(cfg Config, run func() error) bool {
	schedule := strings.TrimSpace(cfg.RefreshSchedule)
	if schedule == "" {
		log.Println("Scheduled refresh disabled (refresh_schedule not set)")
		return false
	}

	sched, err := ParseRefreshSchedule(schedule)
	if err != nil {
		log.Printf("Invalid refresh_schedule '%s': %v — scheduled refresh disabled", schedule, err)
		return false
	}

	log.Printf("Refresh scheduled (cron: %s)", schedule)

	go func() {
		for {
			now := time.Now().In(cfg.Location)
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next refresh at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			if err := run(); err != nil {
				log.Printf("Scheduled refresh error: %v", err)
			}
		}
	}()
	return true
}
