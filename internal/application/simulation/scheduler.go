package simulation

import (
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/task"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
	"github.com/andrescamacho/skirmish-go/pkg/utils"
)

// Job is one task handler running on one unit
type Job struct {
	id        string
	name      string
	unit      *unit.Unit
	handler   task.Handler
	lifecycle *shared.LifecycleStateMachine
}

func (j *Job) ID() string                     { return j.id }
func (j *Job) Name() string                   { return j.name }
func (j *Job) Unit() *unit.Unit               { return j.unit }
func (j *Job) Handler() task.Handler          { return j.handler }
func (j *Job) Status() shared.LifecycleStatus { return j.lifecycle.Status() }
func (j *Job) Ticks() int                     { return j.lifecycle.Ticks() }
func (j *Job) LastError() error               { return j.lifecycle.LastError() }

// Scheduler drives at most one handler per unit. Handlers are updated once
// per tick in assignment order; finished handlers are ended and dropped.
type Scheduler struct {
	clock  shared.Clock
	logger shared.Logger
	jobs   map[string]*Job
	order  []string

	JobFinished shared.Event[*Job]
}

func NewScheduler(clock shared.Clock, logger shared.Logger) *Scheduler {
	return &Scheduler{
		clock:  clock,
		logger: shared.LoggerOrNoOp(logger),
		jobs:   make(map[string]*Job),
	}
}

// Assign starts t on u, replacing whatever u was running. A task that cannot
// execute leaves the current job untouched and returns an error. A handler
// that finishes during StartTask is completed right away and not scheduled.
func (s *Scheduler) Assign(u *unit.Unit, name string, t task.Task, ctx task.Context, input task.Input) (*Job, error) {
	if u == nil {
		return nil, shared.NewArgumentNilError("unit")
	}
	if t == nil {
		return nil, shared.NewArgumentNilError("task")
	}
	if !t.CanExecuteTask(ctx, input) {
		return nil, shared.NewInvalidArgumentError("task", fmt.Sprintf("%s cannot run on %s", name, u.ID()))
	}

	s.Cancel(u.ID())

	job := &Job{
		id:        utils.GenerateEntityID("job"),
		name:      name,
		unit:      u,
		handler:   t.CreateHandler(),
		lifecycle: shared.NewLifecycleStateMachine(s.clock),
	}
	_ = job.lifecycle.Start()

	if err := job.handler.StartTask(ctx, input); err != nil {
		job.handler.EndTask()
		_ = job.lifecycle.Fail(err)
		s.logger.Log(shared.LevelError, fmt.Sprintf("failed to start %s: %v", name, err), map[string]interface{}{
			"unit_id": u.ID(),
			"job_id":  job.id,
		})
		s.JobFinished.Invoke(job)
		return nil, fmt.Errorf("failed to start %s on %s: %w", name, u.ID(), err)
	}

	if job.handler.IsFinished() {
		job.handler.EndTask()
		_ = job.lifecycle.Complete()
		s.JobFinished.Invoke(job)
		return job, nil
	}

	s.jobs[u.ID()] = job
	s.order = append(s.order, u.ID())
	s.logger.Log(shared.LevelDebug, "job started", map[string]interface{}{
		"unit_id": u.ID(),
		"job_id":  job.id,
		"task":    name,
	})
	return job, nil
}

// Cancel ends the job running on unitID early
func (s *Scheduler) Cancel(unitID string) bool {
	job, ok := s.jobs[unitID]
	if !ok {
		return false
	}
	s.remove(unitID)
	job.handler.EndTask()
	_ = job.lifecycle.Stop()
	s.JobFinished.Invoke(job)
	return true
}

// CancelAll ends every running job
func (s *Scheduler) CancelAll() {
	for _, id := range append([]string(nil), s.order...) {
		s.Cancel(id)
	}
}

// Update ticks every running handler once
func (s *Scheduler) Update(deltaTime float64) {
	for _, id := range append([]string(nil), s.order...) {
		job, ok := s.jobs[id]
		if !ok {
			continue
		}
		job.handler.UpdateTask(deltaTime)
		if current, ok := s.jobs[id]; !ok || current != job {
			// cancelled from inside the update, e.g. the unit was destroyed
			continue
		}
		_ = job.lifecycle.Tick()

		if job.handler.IsFinished() {
			s.remove(id)
			job.handler.EndTask()
			_ = job.lifecycle.Complete()
			s.JobFinished.Invoke(job)
		}
	}
}

// Job returns the job running on unitID
func (s *Scheduler) Job(unitID string) (*Job, bool) {
	job, ok := s.jobs[unitID]
	return job, ok
}

// Jobs returns running jobs in assignment order
func (s *Scheduler) Jobs() []*Job {
	jobs := make([]*Job, 0, len(s.order))
	for _, id := range s.order {
		jobs = append(jobs, s.jobs[id])
	}
	return jobs
}

// Running returns the number of running jobs
func (s *Scheduler) Running() int {
	return len(s.jobs)
}

func (s *Scheduler) remove(unitID string) {
	delete(s.jobs, unitID)
	for i, id := range s.order {
		if id == unitID {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			return
		}
	}
}
