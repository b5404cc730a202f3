package api

import (
	"sync"

	"textify/internal/workflow"
)

// jobRegistry keeps finished jobs in memory until they are deleted.
type jobRegistry struct {
	mu   sync.RWMutex
	jobs map[string]*workflow.Job
}

func newJobRegistry() *jobRegistry {
	return &jobRegistry{jobs: make(map[string]*workflow.Job)}
}

func (r *jobRegistry) put(job *workflow.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
}

func (r *jobRegistry) get(id string) (*workflow.Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	return job, ok
}

func (r *jobRegistry) remove(id string) (*workflow.Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if ok {
		delete(r.jobs, id)
	}
	return job, ok
}

func (r *jobRegistry) drain() []*workflow.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*workflow.Job, 0, len(r.jobs))
	for id, job := range r.jobs {
		out = append(out, job)
		delete(r.jobs, id)
	}
	return out
}
