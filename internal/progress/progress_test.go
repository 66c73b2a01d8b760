package progress

import (
	"testing"
	"time"

	"github.com/claimlens/claimlens/internal/document"
	"github.com/claimlens/claimlens/internal/registry"
)

func fastScript() Script {
	return Script{
		{document.StageRotationCheck, "Checking page rotation", time.Millisecond, time.Millisecond},
		{document.StageTextExtraction, "Extracting text layers", time.Millisecond, time.Millisecond},
		{document.StageValidation, "Validating extracted claims", time.Millisecond, time.Millisecond},
	}
}

func TestSimulatorPlaysScript(t *testing.T) {
	store := registry.New()
	store.Add(document.New("x", "a.pdf", "", 0, 0))

	sim := Start(store, "x", fastScript())
	select {
	case <-sim.Done():
	case <-time.After(time.Second):
		t.Fatal("simulator did not finish")
	}

	doc, _ := store.Get("x")
	if doc.Stage != document.StageValidation {
		t.Errorf("expected final scripted stage, got %s", doc.Stage)
	}
	if doc.Message != "Validating extracted claims" {
		t.Errorf("unexpected message: %s", doc.Message)
	}
}

func TestSimulatorStop(t *testing.T) {
	store := registry.New()
	store.Add(document.New("x", "a.pdf", "", 0, 0))

	// Long enough that Stop lands before the first write.
	script := Script{
		{document.StageRotationCheck, "Checking page rotation", 200 * time.Millisecond, 200 * time.Millisecond},
	}
	sim := Start(store, "x", script)
	sim.Stop()

	select {
	case <-sim.Done():
	case <-time.After(time.Second):
		t.Fatal("simulator did not exit after Stop")
	}

	doc, _ := store.Get("x")
	if doc.Stage != document.StageQueued {
		t.Errorf("stopped simulator still wrote stage %s", doc.Stage)
	}
}

func TestSimulatorExitsOnTerminalDocument(t *testing.T) {
	store := registry.New()
	store.Add(document.New("x", "a.pdf", "", 0, 0))

	// The real outcome lands before the simulator's first write.
	store.Update("x", func(d *document.Document) {
		d.Stage = document.StageComplete
		d.Message = "Extraction complete"
	})

	sim := Start(store, "x", fastScript())
	select {
	case <-sim.Done():
	case <-time.After(time.Second):
		t.Fatal("simulator did not exit against a terminal document")
	}

	doc, _ := store.Get("x")
	if doc.Stage != document.StageComplete || doc.Message != "Extraction complete" {
		t.Errorf("terminal state was disturbed: %s / %s", doc.Stage, doc.Message)
	}
}

func TestDefaultScriptOrder(t *testing.T) {
	script := DefaultScript()
	want := []document.Stage{
		document.StageRotationCheck,
		document.StageTextExtraction,
		document.StageSchemaExtraction,
		document.StagePolicyDetection,
		document.StageClaimExtraction,
		document.StageValidation,
	}
	if len(script) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(script))
	}
	for i, step := range script {
		if step.Stage != want[i] {
			t.Errorf("step %d: got %s, want %s", i, step.Stage, want[i])
		}
		if step.Min <= 0 || step.Max < step.Min {
			t.Errorf("step %d has invalid delay bounds: %s..%s", i, step.Min, step.Max)
		}
	}
}
