package store

import (
	"testing"
	"time"

	"github.com/rawwerks/overmon/internal/metrics"
)

func snapWithCPU(pct float64) metrics.Snapshot {
	return metrics.Snapshot{
		Timestamp:  time.Now(),
		CPUPercent: metrics.FieldOf(pct),
	}
}

func TestLatestBeforeFirstPublish(t *testing.T) {
	s := New(4)
	snap := s.Latest()
	if snap.CPUPercent.Present {
		t.Error("zero snapshot has a present CPU field")
	}
	if snap.Timestamp.IsZero() {
		t.Error("zero snapshot has no timestamp")
	}
}

func TestPublishSwapsLatest(t *testing.T) {
	s := New(4)
	s.Publish(snapWithCPU(10))
	s.Publish(snapWithCPU(20))
	got := s.Latest()
	if !got.CPUPercent.Present || got.CPUPercent.Value != 20 {
		t.Errorf("Latest CPU = %+v, want present 20", got.CPUPercent)
	}
}

func TestHistoryEvictsOldest(t *testing.T) {
	s := New(3)
	for _, v := range []float64{1, 2, 3, 4, 5} {
		s.Publish(snapWithCPU(v))
	}
	h := s.History()
	if len(h) != 3 {
		t.Fatalf("len(History) = %d, want 3", len(h))
	}
	if h[0].CPUPercent.Value != 3 || h[2].CPUPercent.Value != 5 {
		t.Errorf("history = [%v %v %v], want [3 4 5]",
			h[0].CPUPercent.Value, h[1].CPUPercent.Value, h[2].CPUPercent.Value)
	}
}

func TestSmoothedAverages(t *testing.T) {
	s := New(8)
	for _, v := range []float64{10, 20, 30} {
		s.Publish(snapWithCPU(v))
	}
	got := s.Smoothed(3)
	if got.CPUPercent.Value != 20 {
		t.Errorf("Smoothed CPU = %f, want 20", got.CPUPercent.Value)
	}
	// Window of 1 is the instantaneous value.
	if v := s.Smoothed(1).CPUPercent.Value; v != 30 {
		t.Errorf("Smoothed(1) CPU = %f, want 30", v)
	}
}

func TestSmoothedSkipsAbsentFields(t *testing.T) {
	s := New(8)
	s.Publish(snapWithCPU(10))
	s.Publish(metrics.Snapshot{Timestamp: time.Now()}) // GPU fell over, all absent
	s.Publish(snapWithCPU(30))

	got := s.Smoothed(3)
	if got.CPUPercent.Value != 20 {
		t.Errorf("Smoothed CPU = %f, want 20 (absent tick skipped)", got.CPUPercent.Value)
	}
	if got.GPUPercent.Present {
		t.Error("Smoothed GPU present, want absent when never reported")
	}
}

func TestSmoothedWindowLargerThanHistory(t *testing.T) {
	s := New(8)
	s.Publish(snapWithCPU(40))
	got := s.Smoothed(5)
	if got.CPUPercent.Value != 40 {
		t.Errorf("Smoothed CPU = %f, want 40", got.CPUPercent.Value)
	}
}

func TestSubscriberNeverBlocksPublish(t *testing.T) {
	s := New(4)
	ch := s.Subscribe()

	done := make(chan struct{})
	go func() {
		// Nobody reads ch; every publish must still return.
		for i := 0; i < 10; i++ {
			s.Publish(snapWithCPU(float64(i)))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	// The subscriber still sees some snapshot, just not all of them.
	select {
	case snap := <-ch:
		if !snap.CPUPercent.Present {
			t.Error("subscriber snapshot has no CPU field")
		}
	default:
		t.Error("subscriber channel empty after publishes")
	}
}
