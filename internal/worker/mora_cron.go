package worker

// mora_cron.go
// Runs the daily penalty sweep on a robfig/cron schedule evaluated in the
// business timezone. The sweep is idempotent per day, so a missed or repeated
// tick is harmless.

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Barrido runs one penalty sweep.
type Barrido func(ctx context.Context) error

// StartMoraCron schedules fn at spec and stops the scheduler when ctx ends.
// An empty spec disables the job and returns a nil scheduler.
func StartMoraCron(ctx context.Context, spec string, loc *time.Location, fn Barrido) (*cron.Cron, error) {
	if spec == "" {
		log.Info().Msg("mora_cron: disabled")
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))
	_, err := c.AddFunc(spec, func() {
		log.Info().Msg("mora_cron: sweep started")
		if err := fn(ctx); err != nil {
			log.Error().Err(err).Msg("mora_cron: sweep failed")
			return
		}
		log.Info().Msg("mora_cron: sweep finished")
	})
	if err != nil {
		return nil, err
	}
	c.Start()

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		log.Info().Msg("mora_cron: shutting down")
	}()
	log.Info().Str("spec", spec).Str("tz", loc.String()).Msg("mora_cron: started")
	return c, nil
}
