package digest

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler runs a digest job once a day at a fixed local hour.
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

func NewScheduler(logger zerolog.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), logger: logger}
}

// Schedule registers job to run daily at the given hour (0-23).
func (s *Scheduler) Schedule(hour int, job func() error) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("digest hour %d out of range", hour)
	}

	spec := fmt.Sprintf("0 %d * * *", hour)
	_, err := s.cron.AddFunc(spec, func() {
		if err := job(); err != nil {
			s.logger.Error().Err(err).Msg("scheduled digest failed")
			return
		}
		s.logger.Info().Int("hour", hour).Msg("scheduled digest generated")
	})
	if err != nil {
		return fmt.Errorf("schedule digest: %w", err)
	}
	return nil
}

// Start begins running scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling; a running job finishes on its own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
