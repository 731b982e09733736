// Package shell is the terminal presentation layer for a workout session.
// It owns the event loop and the rest countdown timer, translating key
// commands and timer expiry into engine actions one at a time; the engine
// itself stays synchronous and pure.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/claude/repflow/internal/models"
	"github.com/claude/repflow/internal/session"
)

// LogPersister writes a session's finalized log batch. Persistence is
// best-effort: the shell logs failures and shows the summary regardless.
type LogPersister interface {
	PersistLogs(ctx context.Context, userID int, date time.Time, elapsed time.Duration, logs []models.ExerciseLog) error
}

// Shell runs one workout session against a terminal.
type Shell struct {
	in        io.Reader
	out       io.Writer
	persister LogPersister
	userID    int
	log       *slog.Logger

	// now and restDuration are swappable for tests.
	now          func() time.Time
	restDuration func(models.WorkoutRef) time.Duration
}

// New creates a Shell. persister may be nil (no user identity); the session
// then finishes without persisting.
func New(in io.Reader, out io.Writer, persister LogPersister, userID int, log *slog.Logger) *Shell {
	return &Shell{
		in:           in,
		out:          out,
		persister:    persister,
		userID:       userID,
		log:          log,
		now:          time.Now,
		restDuration: session.RestDuration,
	}
}

// Run drives the session over the resolved workout sequence until it
// completes or the user confirms an exit. It returns the reconciled summary
// in both cases.
func (sh *Shell) Run(ctx context.Context, refs []models.WorkoutRef) (session.Summary, error) {
	state := session.New(refs, sh.now())

	inputs := make(chan string)
	go sh.readLoop(inputs)

	var restTimer *time.Timer
	var restC <-chan time.Time
	stopRest := func() {
		if restTimer != nil {
			restTimer.Stop()
			restTimer = nil
			restC = nil
		}
	}
	defer stopRest()

	for {
		sh.render(state)

		var action session.Action
		select {
		case <-ctx.Done():
			return sh.finish(ctx, state), ctx.Err()
		case <-restC:
			// The timer fires exactly once per rest period.
			restC = nil
			restTimer = nil
			action = session.RestComplete{}
		case line, ok := <-inputs:
			if !ok {
				return sh.finish(ctx, state), nil
			}
			cmd := strings.ToLower(strings.TrimSpace(line))
			if cmd == "q" {
				if sh.confirmExit(inputs) {
					return sh.finish(ctx, state), nil
				}
				continue
			}
			var known bool
			action, known = commandAction(state.Phase, cmd)
			if !known {
				fmt.Fprintf(sh.out, "unknown command %q\n", cmd)
				continue
			}
		}

		prev := state
		state = session.Reduce(state, action)

		// The timer is an external effect: started when a rest gate opens,
		// cancelled the moment anything leaves rest.
		if prev.Phase != session.PhaseRest && state.Phase == session.PhaseRest {
			if w, ok := state.Current(); ok {
				restTimer = time.NewTimer(sh.restDuration(w))
				restC = restTimer.C
			}
		}
		if prev.Phase == session.PhaseRest && state.Phase != session.PhaseRest {
			stopRest()
		}

		if state.Completed() {
			return sh.finish(ctx, state), nil
		}
	}
}

func (sh *Shell) readLoop(inputs chan<- string) {
	scanner := bufio.NewScanner(sh.in)
	for scanner.Scan() {
		inputs <- scanner.Text()
	}
	close(inputs)
}

// commandAction maps a key command to an engine action for the given phase.
// Unknown combinations are rejected here; phase guards in the engine catch
// anything that slips through.
func commandAction(phase session.Phase, cmd string) (session.Action, bool) {
	switch cmd {
	case "c":
		return session.CompleteSet{}, true
	case "b":
		return session.NavigateBack{}, true
	case "n":
		return session.NavigateNext{}, true
	case "s":
		if phase == session.PhaseRest {
			return session.SkipRest{}, true
		}
		return session.SkipWarmup{}, true
	}
	return nil, false
}

func (sh *Shell) confirmExit(inputs <-chan string) bool {
	fmt.Fprint(sh.out, "End session? Unfinished exercises keep their partial sets. [y/N] ")
	line, ok := <-inputs
	if !ok {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

// finish reconciles the session, persists the log batch best-effort, and
// prints the summary. Persistence failure never blocks the summary.
func (sh *Shell) finish(ctx context.Context, state session.State) session.Summary {
	sum := session.Reconcile(state, sh.now())

	if sh.persister != nil && len(sum.Logs) > 0 {
		if err := sh.persister.PersistLogs(ctx, sh.userID, state.StartTime, sum.Elapsed, sum.Logs); err != nil {
			sh.log.Warn("failed to persist session logs", "error", err, "entries", len(sum.Logs))
		}
	}

	fmt.Fprintf(sh.out, "\nSession done in %s\n", sum.Elapsed.Round(time.Second))
	for _, l := range sum.Logs {
		switch {
		case l.DurationSec > 0:
			fmt.Fprintf(sh.out, "  %-24s %d sets, %ds\n", l.Title, l.SetsCompleted, l.DurationSec)
		default:
			fmt.Fprintf(sh.out, "  %-24s %d sets x %d reps\n", l.Title, l.SetsCompleted, l.Reps)
		}
	}
	return sum
}

func (sh *Shell) render(state session.State) {
	switch state.Phase {
	case session.PhaseWarmup:
		fmt.Fprintf(sh.out, "[warmup] %d exercises queued  (s=start, n=skip, q=quit)\n", len(state.Sequence))
	case session.PhaseExercise:
		w, ok := state.Current()
		if !ok {
			return
		}
		done := state.SetProgress[state.Index]
		fmt.Fprintf(sh.out, "[%d/%d] %s  set %d/%d  %s  (c=complete set, b=back, n=skip, q=quit)\n",
			state.Index+1, len(state.Sequence), w.Title,
			done+1, session.TotalSets(w), progressBar(session.Progress(state)))
	case session.PhaseRest:
		w, _ := state.Current()
		fmt.Fprintf(sh.out, "[rest] %s before the next set of %s  (s=skip, b=back, q=quit)\n",
			sh.restDuration(w), w.Title)
	}
}

func progressBar(frac float64) string {
	const width = 10
	filled := int(frac * width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
