package session

// Action is a discrete intent fed to Reduce: a user gesture, tap, or rest
// timer expiry. Actions that are not valid for the current phase are
// silently ignored.
type Action interface {
	isAction()
}

// SkipWarmup moves from warmup to the first exercise.
type SkipWarmup struct{}

// CompleteSet marks one set of the active exercise as done. At the
// exercise's final set it records a log entry and advances; otherwise it
// opens a rest gate when the workout calls for one.
type CompleteSet struct{}

// RestComplete is fired by the rest timer when the countdown expires.
type RestComplete struct{}

// SkipRest ends the rest gate early on user request.
type SkipRest struct{}

// NavigateBack steps one set, exercise, or phase backwards.
type NavigateBack struct{}

// NavigateNext skips forward: out of warmup, or past the active exercise
// regardless of its set completion.
type NavigateNext struct{}

func (SkipWarmup) isAction()   {}
func (CompleteSet) isAction()  {}
func (RestComplete) isAction() {}
func (SkipRest) isAction()     {}
func (NavigateBack) isAction() {}
func (NavigateNext) isAction() {}
