package cron

import (
	"context"
	"fmt"
)

// Job is one unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds jobs in registration order. Names must be unique because
// metrics and logs are keyed by them.
type Registry struct {
	jobs  []Job
	names map[string]struct{}
}

// NewRegistry registers jobs, skipping nils. It panics on duplicate names.
func NewRegistry(jobs ...Job) *Registry {
	r := &Registry{names: map[string]struct{}{}}
	for _, job := range jobs {
		if err := r.Register(job); err != nil {
			panic(err)
		}
	}
	return r
}

// Register appends job. A nil job is ignored.
func (r *Registry) Register(job Job) error {
	if job == nil {
		return nil
	}
	if r.names == nil {
		r.names = map[string]struct{}{}
	}
	name := job.Name()
	if _, dup := r.names[name]; dup {
		return fmt.Errorf("cron job %q already registered", name)
	}
	r.names[name] = struct{}{}
	r.jobs = append(r.jobs, job)
	return nil
}

// Jobs returns a copy of the registered jobs.
func (r *Registry) Jobs() []Job {
	return append([]Job(nil), r.jobs...)
}
