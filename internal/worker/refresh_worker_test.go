package worker

import (
	"context"
	"errors"
	"testing"

	"ventas/internal/amqp"
)

type fakeRefresher struct {
	invalidations int
	warms         int
	warmErr       error
}

func (f *fakeRefresher) Invalidate(ctx context.Context) {
	f.invalidations++
}

func (f *fakeRefresher) Warm(ctx context.Context) error {
	f.warms++
	return f.warmErr
}

func TestHandleRefreshMessage(t *testing.T) {
	fake := &fakeRefresher{}
	w := NewRefreshWorker(fake, nil)

	msg := amqp.NewReportRefreshMessage("batch-1", "registro_ventas_general", 42, "2026-01-01")
	if err := w.HandleRefreshMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleRefreshMessage() error = %v", err)
	}

	if fake.invalidations != 1 {
		t.Errorf("invalidations = %d, want 1", fake.invalidations)
	}
	if fake.warms != 1 {
		t.Errorf("warms = %d, want 1", fake.warms)
	}
}

func TestHandleRefreshMessageWarmError(t *testing.T) {
	fake := &fakeRefresher{warmErr: errors.New("source down")}
	w := NewRefreshWorker(fake, nil)

	msg := amqp.NewReportRefreshMessage("batch-2", "marca", 3, "")
	err := w.HandleRefreshMessage(context.Background(), msg)
	if err == nil {
		t.Fatal("expected error when rewarm fails")
	}
	if !errors.Is(err, fake.warmErr) {
		t.Errorf("error = %v, want wrapped %v", err, fake.warmErr)
	}

	if fake.invalidations != 1 {
		t.Errorf("invalidations = %d, want 1 even when warm fails", fake.invalidations)
	}
}
