package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeSweeper struct {
	n     int64
	err   error
	calls int
}

func (f *fakeSweeper) CleanupExpired(ctx context.Context) (int64, error) {
	f.calls++
	return f.n, f.err
}

func (f *fakeSweeper) ExpireInvitations(ctx context.Context) (int64, error) {
	f.calls++
	return f.n, f.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestRegisterExpirySweep_SpecValidation(t *testing.T) {
	s := NewScheduler(quietLogger())
	if err := s.RegisterExpirySweep("*/5 * * * *", &fakeSweeper{}, &fakeSweeper{}); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}
	if err := s.RegisterExpirySweep("not a cron spec", &fakeSweeper{}, &fakeSweeper{}); err == nil {
		t.Fatalf("expected error for bad spec")
	}
}

func TestSweepOnce_CallsBothSweepers(t *testing.T) {
	s := NewScheduler(quietLogger())
	qr := &fakeSweeper{n: 3}
	inv := &fakeSweeper{n: 1}

	s.sweepOnce(context.Background(), qr, inv)

	if qr.calls != 1 || inv.calls != 1 {
		t.Fatalf("want one call each, got qr=%d inv=%d", qr.calls, inv.calls)
	}
}

func TestSweepOnce_QRFailureDoesNotSkipInvitations(t *testing.T) {
	s := NewScheduler(quietLogger())
	qr := &fakeSweeper{err: errors.New("db down")}
	inv := &fakeSweeper{}

	s.sweepOnce(context.Background(), qr, inv)

	if inv.calls != 1 {
		t.Fatalf("invitation sweep skipped after qr failure")
	}
}
