package pipeline

import (
	"context"
	"sync"
	"time"

	apperrors "clinocontour/internal/errors"
	"clinocontour/pkg/contracts/events"
)

// Stage is a step of the linear survey pipeline
type Stage string

const (
	StageLoaded    Stage = "loaded"
	StageAxesBuilt Stage = "axes_built"
	StageGridBuilt Stage = "grid_built"
	StageRendered  Stage = "rendered"
	StageExported  Stage = "exported"
)

// Stages lists every stage in execution order
var Stages = []Stage{StageLoaded, StageAxesBuilt, StageGridBuilt, StageRendered, StageExported}

// Progress returns the share of the run finished once s completes, 0-100.
func (s Stage) Progress() int {
	for i, stage := range Stages {
		if stage == s {
			return (i + 1) * 100 / len(Stages)
		}
	}
	return 0
}

// StageTiming records how long one stage took
type StageTiming struct {
	Stage    Stage         `json:"stage"`
	Duration time.Duration `json:"duration"`
}

// Observer is notified as a run completes or fails each stage. Observers
// are called synchronously on the pipeline goroutine and must not block.
type Observer interface {
	StageChanged(ctx context.Context, event events.StageEvent)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(ctx context.Context, event events.StageEvent)

// StageChanged calls f
func (f ObserverFunc) StageChanged(ctx context.Context, event events.StageEvent) {
	f(ctx, event)
}

// Recorder is an Observer that keeps every event it sees
type Recorder struct {
	mu     sync.Mutex
	events []events.StageEvent
}

// StageChanged records event
func (r *Recorder) StageChanged(_ context.Context, event events.StageEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []events.StageEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.StageEvent, len(r.events))
	copy(out, r.events)
	return out
}

func stageEvent(runID, source string, stage Stage, elapsed time.Duration, err error) events.StageEvent {
	event := events.StageEvent{
		RunID:     runID,
		Source:    source,
		Stage:     string(stage),
		Status:    events.StatusCompleted,
		Progress:  stage.Progress(),
		ElapsedMS: elapsed.Milliseconds(),
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		event.Status = events.StatusFailed
		event.Error = err.Error()
		event.ErrorKind = string(apperrors.TypeOf(err))
	}
	return event
}
