// Package progress plays the scripted stage narrative for a document while
// its real extraction request is in flight.
//
// The backend exposes no progress channel, so a fixed script of stage/message
// steps with randomized delays stands in for perceived progress. The script
// is purely cosmetic: the authoritative request outcome always wins because
// the simulator is stopped before the final state is written, and the
// registry drops writes against terminal documents.
package progress

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/claimlens/claimlens/internal/document"
	"github.com/claimlens/claimlens/internal/registry"
)

// Step is one entry in the stage script.
type Step struct {
	Stage   document.Stage
	Message string
	Min     time.Duration
	Max     time.Duration
}

// Script is an ordered list of steps played front to back.
type Script []Step

// DefaultScript mirrors the extraction backend's actual pipeline order.
func DefaultScript() Script {
	return Script{
		{document.StageRotationCheck, "Checking page rotation", 400 * time.Millisecond, 900 * time.Millisecond},
		{document.StageTextExtraction, "Extracting text layers", 800 * time.Millisecond, 1600 * time.Millisecond},
		{document.StageSchemaExtraction, "Detecting form schema", 700 * time.Millisecond, 1400 * time.Millisecond},
		{document.StagePolicyDetection, "Matching policy format", 500 * time.Millisecond, 1100 * time.Millisecond},
		{document.StageClaimExtraction, "Extracting claim records", 900 * time.Millisecond, 1800 * time.Millisecond},
		{document.StageValidation, "Validating extracted claims", 400 * time.Millisecond, 900 * time.Millisecond},
	}
}

// Simulator advances one document through a script in its own goroutine.
type Simulator struct {
	stopped atomic.Bool
	done    chan struct{}
}

// Start begins playing the script against the given document.
func Start(store *registry.Store, id string, script Script) *Simulator {
	s := &Simulator{done: make(chan struct{})}
	go s.run(store, id, script)
	return s
}

// Stop disables further stage writes. Cancellation is cooperative: a wait in
// progress is not preempted, but no write happens after the flag is observed.
// Callers must Stop before writing the document's final state.
func (s *Simulator) Stop() {
	s.stopped.Store(true)
}

// Done is closed when the simulator goroutine exits.
func (s *Simulator) Done() <-chan struct{} {
	return s.done
}

func (s *Simulator) run(store *registry.Store, id string, script Script) {
	defer close(s.done)
	for _, step := range script {
		time.Sleep(stepDelay(step))
		if s.stopped.Load() {
			return
		}
		// The registry refuses the write if the real outcome landed first.
		ok := store.Update(id, func(d *document.Document) {
			d.Stage = step.Stage
			d.Message = step.Message
		})
		if !ok {
			return
		}
	}
}

// stepDelay draws a duration uniformly from the step's bounds.
func stepDelay(step Step) time.Duration {
	if step.Max <= step.Min {
		return step.Min
	}
	return step.Min + time.Duration(rand.Int63n(int64(step.Max-step.Min)))
}
