package pipeline

import (
	"testing"
	"time"
)

func TestTrackerCoalescesMidStagePercentUpdates(t *testing.T) {
	notifier := &recordingNotifier{}
	track := newTracker(notifier, time.Hour)

	for percent := 0; percent <= 100; percent++ {
		track.emit(Progress{Stage: StageRetrieving, Percent: float64(percent)})
	}

	if len(notifier.updates) != 2 {
		t.Fatalf("expected mid-stage updates to coalesce to 2 deliveries, got %d", len(notifier.updates))
	}
	if notifier.updates[0].Percent != 0 {
		t.Fatalf("expected the stage transition to pass through, got %+v", notifier.updates[0])
	}
	if notifier.updates[1].Percent != 100 {
		t.Fatalf("expected the 100%% update to pass through, got %+v", notifier.updates[1])
	}
}

func TestTrackerZeroIntervalDisablesCoalescing(t *testing.T) {
	notifier := &recordingNotifier{}
	track := newTracker(notifier, 0)

	for _, percent := range []float64{0, 25, 50, 75} {
		track.emit(Progress{Stage: StageRetrieving, Percent: percent})
	}

	if len(notifier.updates) != 4 {
		t.Fatalf("expected all updates with no throttle interval, got %d", len(notifier.updates))
	}
}

func TestTrackerThrottleOnlyAppliesToRetrieving(t *testing.T) {
	notifier := &recordingNotifier{}
	track := newTracker(notifier, time.Hour)

	track.emit(Progress{Stage: StageRetrieving, Percent: 0})
	track.emit(Progress{Stage: StageTranscoding})
	track.emit(Progress{Stage: StageAssembling})

	if len(notifier.updates) != 3 {
		t.Fatalf("expected stage transitions to bypass the throttle, got %d deliveries", len(notifier.updates))
	}
}
