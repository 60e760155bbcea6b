package task

// Task is a stateless eligibility check paired with a handler factory.
//
// CanExecuteTask must not mutate anything: callers check several candidate
// targets with it before committing to one. A Task value may be shared by
// many units; all per-run state lives in the Handler it creates.
type Task interface {
	CanExecuteTask(ctx Context, input Input) bool
	CreateHandler() Handler
}

// Handler is one running task instance.
//
// The owner calls StartTask once, then UpdateTask every tick while
// IsFinished is false, then EndTask once. EndTask may also be called early
// (e.g. a new command overrides the current one) and must release every
// claim taken in StartTask even if StartTask bailed out part way.
type Handler interface {
	StartTask(ctx Context, input Input) error
	UpdateTask(deltaTime float64)
	IsFinished() bool
	EndTask()
}

// Run is a convenience for the common check-then-start sequence. It returns
// nil when the task cannot execute.
func Run(t Task, ctx Context, input Input) (Handler, error) {
	if !t.CanExecuteTask(ctx, input) {
		return nil, nil
	}
	h := t.CreateHandler()
	if err := h.StartTask(ctx, input); err != nil {
		h.EndTask()
		return nil, err
	}
	return h, nil
}
