package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ExpirySweeper is the slice of a usecase the sweep job needs.
type ExpirySweeper interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// InvitationSweeper expires stale guarantor invitations.
type InvitationSweeper interface {
	ExpireInvitations(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron *cron.Cron
	log  *logrus.Logger
}

func NewScheduler(log *logrus.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), log: log}
}

// RegisterExpirySweep schedules the QR token and invitation expiry sweep.
// spec uses the standard 5-field cron format.
func (s *Scheduler) RegisterExpirySweep(spec string, qr ExpirySweeper, inv InvitationSweeper) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.sweepOnce(ctx, qr, inv)
	})
	return err
}

func (s *Scheduler) sweepOnce(ctx context.Context, qr ExpirySweeper, inv InvitationSweeper) {
	if n, err := qr.CleanupExpired(ctx); err != nil {
		s.log.WithError(err).Warn("qr expiry sweep failed")
	} else if n > 0 {
		s.log.WithField("expired", n).Info("qr tokens expired")
	}

	if n, err := inv.ExpireInvitations(ctx); err != nil {
		s.log.WithError(err).Warn("invitation expiry sweep failed")
	} else if n > 0 {
		s.log.WithField("expired", n).Info("guarantor invitations expired")
	}
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop waits for any in-flight sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
