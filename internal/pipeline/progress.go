package pipeline

import (
	"time"
)

// Stage identifies a pipeline state. Stages advance strictly forward; no
// stage is revisited within a request.
type Stage string

const (
	StageClassifying    Stage = "classifying"
	StageProbing        Stage = "probing_metadata"
	StageCheckingPolicy Stage = "checking_policy"
	StageRetrieving     Stage = "retrieving"
	StageTranscoding    Stage = "transcoding"
	StageAssembling     Stage = "assembling"
	StageDelivering     Stage = "delivering"
	StageDone           Stage = "done"
	StageFailed         Stage = "failed"
)

var stageOrder = map[Stage]int{
	StageClassifying:    0,
	StageProbing:        1,
	StageCheckingPolicy: 2,
	StageRetrieving:     3,
	StageTranscoding:    4,
	StageAssembling:     5,
	StageDelivering:     6,
	StageDone:           7,
	StageFailed:         7,
}

// Terminal reports whether the stage ends a request.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// Progress is one status update for a request. Percent is meaningful only
// during StageRetrieving; -1 means unknown.
type Progress struct {
	Stage   Stage
	Percent float64
	Message string
}

// Notifier receives progress updates. The orchestrator invokes it
// synchronously at every transition; the transport layer edits its status
// message in place from these.
type Notifier interface {
	Update(Progress)
}

// NopNotifier discards all updates.
type NopNotifier struct{}

func (NopNotifier) Update(Progress) {}

// tracker guards a Notifier with the ordering contract: updates are
// monotonically non-decreasing in stage order, mid-stage percent updates are
// throttled, and exactly one terminal update is delivered.
type tracker struct {
	notifier  Notifier
	interval  time.Duration
	lastStage int
	lastSent  time.Time
	terminal  bool
}

func newTracker(notifier Notifier, interval time.Duration) *tracker {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &tracker{notifier: notifier, interval: interval, lastStage: -1}
}

func (t *tracker) emit(p Progress) {
	if t.terminal {
		return
	}
	rank, known := stageOrder[p.Stage]
	if !known || rank < t.lastStage {
		return
	}
	if rank == t.lastStage && p.Stage == StageRetrieving {
		// coalesce same-stage percent updates
		if p.Percent < 100 && time.Since(t.lastSent) < t.interval {
			return
		}
	}
	t.lastStage = rank
	t.lastSent = time.Now()
	if p.Stage.Terminal() {
		t.terminal = true
	}
	t.notifier.Update(p)
}
