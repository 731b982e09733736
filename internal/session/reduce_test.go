package session

import (
	"testing"
	"time"

	"github.com/claude/repflow/internal/models"
)

// strengthRef builds a strength workout with explicit sets and no rest gate
// relevance removed — tests that don't care about rest use cardio-free
// sequences and step through rest explicitly where it occurs.
func strengthRef(id string, sets, reps int) models.WorkoutRef {
	return models.WorkoutRef{
		ID:        id,
		Title:     "Workout " + id,
		Type:      models.WorkoutStrength,
		Intensity: models.IntensitySetsReps,
		Sets:      sets,
		Reps:      reps,
	}
}

func cardioRef(id string, durationSec int) models.WorkoutRef {
	return models.WorkoutRef{
		ID:          id,
		Title:       "Cardio " + id,
		Type:        models.WorkoutCardio,
		Intensity:   models.IntensityLegacy,
		DurationSec: durationSec,
	}
}

var t0 = time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)

// completeThroughRest completes one set and, if a rest gate opened, skips it.
func completeThroughRest(s State) State {
	s = Reduce(s, CompleteSet{})
	if s.Phase == PhaseRest {
		s = Reduce(s, SkipRest{})
	}
	return s
}

// TestInitialState verifies a new session starts in warmup with zeroed counters.
func TestInitialState(t *testing.T) {
	s := New([]models.WorkoutRef{strengthRef("a", 3, 8)}, t0)
	if s.Phase != PhaseWarmup {
		t.Errorf("phase = %q, want %q", s.Phase, PhaseWarmup)
	}
	if s.Index != 0 {
		t.Errorf("index = %d, want 0", s.Index)
	}
	if len(s.SetProgress) != 1 || s.SetProgress[0] != 0 {
		t.Errorf("set progress = %v, want [0]", s.SetProgress)
	}
	if !s.StartTime.Equal(t0) {
		t.Errorf("start time = %v, want %v", s.StartTime, t0)
	}
}

// TestSkipWarmup verifies the warmup-to-exercise transition and its no-op
// guard outside warmup.
func TestSkipWarmup(t *testing.T) {
	s := New([]models.WorkoutRef{strengthRef("a", 3, 8)}, t0)
	s = Reduce(s, SkipWarmup{})
	if s.Phase != PhaseExercise {
		t.Fatalf("phase = %q, want %q", s.Phase, PhaseExercise)
	}
	if s.Index != 0 {
		t.Errorf("index = %d, want 0", s.Index)
	}

	again := Reduce(s, SkipWarmup{})
	if again.Phase != PhaseExercise || again.Index != 0 {
		t.Errorf("SkipWarmup outside warmup changed state: phase=%q index=%d", again.Phase, again.Index)
	}
}

// TestCompleteSetScenario walks the literal two-exercise scenario: A with 1
// set, B with 2 sets, completed straight through.
func TestCompleteSetScenario(t *testing.T) {
	a := cardioRef("a", 600)       // totalSets = 1, no rest
	b := strengthRef("b", 2, 8)    // totalSets = 2
	s := New([]models.WorkoutRef{a, b}, t0)
	s = Reduce(s, SkipWarmup{})

	s = Reduce(s, CompleteSet{}) // finishes A
	if s.Phase != PhaseExercise {
		t.Fatalf("after A: phase = %q, want %q", s.Phase, PhaseExercise)
	}
	if s.Index != 1 {
		t.Fatalf("after A: index = %d, want 1", s.Index)
	}
	if len(s.Logs) != 1 || s.Logs[0].WorkoutID != "a" || s.Logs[0].SetsCompleted != 1 {
		t.Fatalf("after A: logs = %+v, want one entry {a, 1}", s.Logs)
	}

	s = completeThroughRest(s) // first set of B
	if s.SetProgress[1] != 1 {
		t.Fatalf("after first B set: progress = %d, want 1", s.SetProgress[1])
	}
	if len(s.Logs) != 1 {
		t.Fatalf("after first B set: logs = %+v, want no entry for b yet", s.Logs)
	}

	s = Reduce(s, CompleteSet{}) // second set of B
	if s.SetProgress[1] != 2 {
		t.Errorf("after second B set: progress = %d, want 2", s.SetProgress[1])
	}
	if len(s.Logs) != 2 || s.Logs[1].WorkoutID != "b" || s.Logs[1].SetsCompleted != 2 {
		t.Errorf("logs = %+v, want [{a,1},{b,2}]", s.Logs)
	}
	if s.Index != 2 {
		t.Errorf("index = %d, want 2", s.Index)
	}
	if s.Phase != PhaseCompleted {
		t.Errorf("phase = %q, want %q", s.Phase, PhaseCompleted)
	}
}

// TestNavigateBackScenario verifies the literal back-navigation scenario:
// from the first completed set of B, NavigateBack returns to A at its last
// set and removes A's log entry.
func TestNavigateBackScenario(t *testing.T) {
	a := cardioRef("a", 600)
	b := strengthRef("b", 2, 8)
	s := New([]models.WorkoutRef{a, b}, t0)
	s = Reduce(s, SkipWarmup{})
	s = Reduce(s, CompleteSet{})  // finishes A, index -> 1
	s = completeThroughRest(s)    // first set of B

	s = Reduce(s, NavigateBack{})
	if s.Index != 0 {
		t.Fatalf("index = %d, want 0", s.Index)
	}
	if s.Phase != PhaseExercise {
		t.Errorf("phase = %q, want %q", s.Phase, PhaseExercise)
	}
	if s.SetProgress[0] != 1 {
		t.Errorf("A progress = %d, want totalSets(A) = 1", s.SetProgress[0])
	}
	if len(s.Logs) != 0 {
		t.Errorf("logs = %+v, want empty after undo", s.Logs)
	}
}

// TestBackNavigationRoundTrip checks the round-trip property: NavigateBack
// immediately after the transition that advanced past exercise i restores
// the index, the full set count, and removes the log entry.
func TestBackNavigationRoundTrip(t *testing.T) {
	refs := []models.WorkoutRef{strengthRef("a", 3, 8), strengthRef("b", 2, 8)}
	s := New(refs, t0)
	s = Reduce(s, SkipWarmup{})
	for range 3 {
		s = completeThroughRest(s)
	}
	if s.Index != 1 {
		t.Fatalf("setup: index = %d, want 1", s.Index)
	}
	if !hasLog(s.Logs, "a") {
		t.Fatalf("setup: expected log entry for a, got %+v", s.Logs)
	}

	s = Reduce(s, NavigateBack{})
	if s.Index != 0 {
		t.Errorf("index = %d, want 0", s.Index)
	}
	if s.SetProgress[0] != 3 {
		t.Errorf("A progress = %d, want 3", s.SetProgress[0])
	}
	if hasLog(s.Logs, "a") {
		t.Errorf("log entry for a should have been removed, got %+v", s.Logs)
	}
}

// TestNavigateBackDecrementsWithinExercise verifies that with two or more
// completed sets, NavigateBack reduces the counter by exactly one per call.
func TestNavigateBackDecrementsWithinExercise(t *testing.T) {
	s := New([]models.WorkoutRef{strengthRef("a", 4, 8)}, t0)
	s = Reduce(s, SkipWarmup{})
	s = completeThroughRest(s)
	s = completeThroughRest(s)
	s = completeThroughRest(s)
	if s.SetProgress[0] != 3 {
		t.Fatalf("setup: progress = %d, want 3", s.SetProgress[0])
	}

	s = Reduce(s, NavigateBack{})
	if s.SetProgress[0] != 2 {
		t.Errorf("progress = %d, want 2", s.SetProgress[0])
	}
	s = Reduce(s, NavigateBack{})
	if s.SetProgress[0] != 1 {
		t.Errorf("progress = %d, want 1", s.SetProgress[0])
	}
}

// TestNavigateBackToWarmup verifies backing out of the first exercise
// returns to warmup.
func TestNavigateBackToWarmup(t *testing.T) {
	s := New([]models.WorkoutRef{strengthRef("a", 3, 8)}, t0)
	s = Reduce(s, SkipWarmup{})
	s = Reduce(s, NavigateBack{})
	if s.Phase != PhaseWarmup {
		t.Errorf("phase = %q, want %q", s.Phase, PhaseWarmup)
	}
}

// TestCompleteSetCeiling verifies the idempotent completion ceiling: once an
// exercise's counter is at its total, CompleteSet changes nothing.
func TestCompleteSetCeiling(t *testing.T) {
	refs := []models.WorkoutRef{strengthRef("a", 2, 8), strengthRef("b", 2, 8)}
	s := New(refs, t0)
	s = Reduce(s, SkipWarmup{})
	s = completeThroughRest(s)
	s = Reduce(s, CompleteSet{}) // finishes a, advances to b

	// Back-navigation parks us on a at its full count.
	s = Reduce(s, NavigateBack{})
	if s.SetProgress[0] != 2 || s.Index != 0 {
		t.Fatalf("setup: index=%d progress=%v", s.Index, s.SetProgress)
	}

	before := s
	s = Reduce(s, CompleteSet{})
	if s.SetProgress[0] != before.SetProgress[0] {
		t.Errorf("progress changed at ceiling: %d -> %d", before.SetProgress[0], s.SetProgress[0])
	}
	if s.Index != before.Index {
		t.Errorf("index changed at ceiling: %d -> %d", before.Index, s.Index)
	}
	if len(s.Logs) != len(before.Logs) {
		t.Errorf("logs changed at ceiling: %+v -> %+v", before.Logs, s.Logs)
	}
}

// TestSetMonotonicity verifies counters never exceed total sets over an
// arbitrary burst of CompleteSet actions.
func TestSetMonotonicity(t *testing.T) {
	s := New([]models.WorkoutRef{strengthRef("a", 3, 8)}, t0)
	s = Reduce(s, SkipWarmup{})

	prev := 0
	for range 10 {
		s = completeThroughRest(s)
		if s.SetProgress[0] > 3 {
			t.Fatalf("progress %d exceeds total sets 3", s.SetProgress[0])
		}
		if s.SetProgress[0] < prev {
			t.Fatalf("progress decreased without NavigateBack: %d -> %d", prev, s.SetProgress[0])
		}
		prev = s.SetProgress[0]
	}
}

// TestLogUniqueness re-completes an exercise after back-navigation cycles
// and checks the log list never holds two entries for one workout id at any
// point.
func TestLogUniqueness(t *testing.T) {
	refs := []models.WorkoutRef{strengthRef("a", 2, 8), strengthRef("b", 2, 8)}
	s := New(refs, t0)
	s = Reduce(s, SkipWarmup{})

	assertUnique := func(logs []models.ExerciseLog) {
		t.Helper()
		seen := map[string]int{}
		for _, l := range logs {
			seen[l.WorkoutID]++
		}
		for id, n := range seen {
			if n > 1 {
				t.Fatalf("workout %q has %d log entries, want at most 1", id, n)
			}
		}
	}

	s = completeThroughRest(s)
	s = Reduce(s, CompleteSet{}) // finishes a, index -> 1
	assertUnique(s.Logs)

	s = completeThroughRest(s)    // one set of b
	s = Reduce(s, NavigateBack{}) // back to a at full count, a's log removed
	assertUnique(s.Logs)

	s = Reduce(s, NavigateBack{}) // a down to 1 completed set
	s = Reduce(s, CompleteSet{})  // re-complete a: log written again
	assertUnique(s.Logs)

	s = completeThroughRest(s)
	s = Reduce(s, CompleteSet{}) // finishes b
	assertUnique(s.Logs)
	if !s.Completed() {
		t.Fatalf("phase = %q, want %q", s.Phase, PhaseCompleted)
	}
	if len(s.Logs) != 2 {
		t.Errorf("final logs = %+v, want entries for a and b", s.Logs)
	}
}

// TestUpsertLogReplaces verifies replace-by-id semantics: a later completion
// overwrites the existing entry instead of appending a duplicate.
func TestUpsertLogReplaces(t *testing.T) {
	logs := []models.ExerciseLog{
		{WorkoutID: "a", SetsCompleted: 1},
		{WorkoutID: "b", SetsCompleted: 2},
	}
	logs = upsertLog(logs, models.ExerciseLog{WorkoutID: "a", SetsCompleted: 3})
	if len(logs) != 2 {
		t.Fatalf("len = %d, want 2", len(logs))
	}
	if logs[0].SetsCompleted != 3 {
		t.Errorf("entry for a = %+v, want sets_completed 3", logs[0])
	}
}

// TestTerminalReachability drives sequences of several lengths to
// completion purely via CompleteSet.
func TestTerminalReachability(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		refs := make([]models.WorkoutRef, n)
		for i := range refs {
			refs[i] = strengthRef(string(rune('a'+i)), 2, 8)
		}
		s := New(refs, t0)
		s = Reduce(s, SkipWarmup{})
		for i := 0; !s.Completed(); i++ {
			if i > 10*n {
				t.Fatalf("n=%d: session did not complete after %d actions", n, i)
			}
			s = completeThroughRest(s)
		}
		if s.Index != n {
			t.Errorf("n=%d: final index = %d, want %d", n, s.Index, n)
		}
		if len(s.Logs) != n {
			t.Errorf("n=%d: %d log entries, want %d", n, len(s.Logs), n)
		}
	}
}

// TestRestGate verifies a non-final strength set opens a rest gate, both
// exits return to the exercise without touching counters, and back-nav
// cancels rest at the same set.
func TestRestGate(t *testing.T) {
	s := New([]models.WorkoutRef{strengthRef("a", 3, 8)}, t0)
	s = Reduce(s, SkipWarmup{})

	s = Reduce(s, CompleteSet{})
	if s.Phase != PhaseRest {
		t.Fatalf("phase = %q, want %q after non-final set", s.Phase, PhaseRest)
	}
	if s.SetProgress[0] != 1 {
		t.Fatalf("progress = %d, want 1", s.SetProgress[0])
	}

	fromTimer := Reduce(s, RestComplete{})
	if fromTimer.Phase != PhaseExercise || fromTimer.SetProgress[0] != 1 {
		t.Errorf("RestComplete: phase=%q progress=%d, want exercise/1", fromTimer.Phase, fromTimer.SetProgress[0])
	}

	fromSkip := Reduce(s, SkipRest{})
	if fromSkip.Phase != PhaseExercise || fromSkip.SetProgress[0] != 1 {
		t.Errorf("SkipRest: phase=%q progress=%d, want exercise/1", fromSkip.Phase, fromSkip.SetProgress[0])
	}

	fromBack := Reduce(s, NavigateBack{})
	if fromBack.Phase != PhaseExercise || fromBack.SetProgress[0] != 1 {
		t.Errorf("NavigateBack from rest: phase=%q progress=%d, want exercise/1", fromBack.Phase, fromBack.SetProgress[0])
	}

	// CompleteSet is not accepted during rest.
	blocked := Reduce(s, CompleteSet{})
	if blocked.SetProgress[0] != 1 {
		t.Errorf("CompleteSet during rest incremented: %d", blocked.SetProgress[0])
	}
}

// TestNavigateNextSkipsWithoutLogging verifies the explicit skip escape
// hatch advances unconditionally and never writes a log entry.
func TestNavigateNextSkipsWithoutLogging(t *testing.T) {
	refs := []models.WorkoutRef{strengthRef("a", 3, 8), strengthRef("b", 2, 8)}
	s := New(refs, t0)

	s = Reduce(s, NavigateNext{}) // acts as SkipWarmup
	if s.Phase != PhaseExercise {
		t.Fatalf("phase = %q, want %q", s.Phase, PhaseExercise)
	}

	s = completeThroughRest(s)    // one partial set of a
	s = Reduce(s, NavigateNext{}) // skip the rest of a
	if s.Index != 1 {
		t.Errorf("index = %d, want 1", s.Index)
	}
	if len(s.Logs) != 0 {
		t.Errorf("skip wrote a log entry: %+v", s.Logs)
	}

	s = Reduce(s, NavigateNext{}) // skip b entirely
	if !s.Completed() {
		t.Errorf("phase = %q, want %q after skipping past the end", s.Phase, PhaseCompleted)
	}
}

// TestInvalidActionsAreNoOps feeds actions to phases that don't accept them.
func TestInvalidActionsAreNoOps(t *testing.T) {
	s := New([]models.WorkoutRef{strengthRef("a", 3, 8)}, t0)

	for _, a := range []Action{CompleteSet{}, RestComplete{}, SkipRest{}, NavigateBack{}} {
		next := Reduce(s, a)
		if next.Phase != PhaseWarmup || next.SetProgress[0] != 0 {
			t.Errorf("%T in warmup changed state: phase=%q progress=%v", a, next.Phase, next.SetProgress)
		}
	}

	done := New(nil, t0)
	done = Reduce(done, SkipWarmup{}) // empty sequence completes immediately
	if !done.Completed() {
		t.Fatalf("empty sequence: phase = %q, want %q", done.Phase, PhaseCompleted)
	}
	for _, a := range []Action{SkipWarmup{}, CompleteSet{}, NavigateNext{}, NavigateBack{}} {
		next := Reduce(done, a)
		if !next.Completed() {
			t.Errorf("%T escaped the terminal phase: %q", a, next.Phase)
		}
	}
}

// TestReduceDoesNotMutateInput guards the pure-function contract.
func TestReduceDoesNotMutateInput(t *testing.T) {
	s := New([]models.WorkoutRef{strengthRef("a", 3, 8)}, t0)
	s = Reduce(s, SkipWarmup{})

	_ = Reduce(s, CompleteSet{})
	if s.SetProgress[0] != 0 {
		t.Errorf("input state mutated: progress = %d, want 0", s.SetProgress[0])
	}
	if len(s.Logs) != 0 {
		t.Errorf("input state mutated: logs = %+v", s.Logs)
	}
}
