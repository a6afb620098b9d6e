package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/stonescan/stonescan-be/internal/services"
)

// OTPSweeper periodically evicts expired one-time codes from the auth
// service, on a cron schedule taken from configuration.
type OTPSweeper struct {
	authSvc  services.AuthServiceProvider
	schedule cron.Schedule
	done     chan bool
}

// NewOTPSweeper creates a sweeper. spec accepts standard cron expressions
// and descriptors like "@every 1m".
func NewOTPSweeper(authSvc services.AuthServiceProvider, spec string) (*OTPSweeper, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, err
	}
	return &OTPSweeper{
		authSvc:  authSvc,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the sweep loop.
func (s *OTPSweeper) Run() {
	log.Info().Msg("Starting OTP sweeper...")
	for {
		timer := time.NewTimer(time.Until(s.schedule.Next(time.Now())))
		select {
		case <-s.done:
			timer.Stop()
			log.Info().Msg("Stopping OTP sweeper.")
			return
		case <-timer.C:
			if evicted := s.authSvc.EvictExpiredOTPs(); evicted > 0 {
				log.Info().Int("evicted", evicted).Msg("Evicted expired OTP codes")
			}
		}
	}
}

// Stop halts the sweep loop.
func (s *OTPSweeper) Stop() {
	s.done <- true
}
