package sim

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/san-kum/motionkit/internal/dynamo"
)

// Job is one member of an ensemble. Each job needs its own Simulator since
// integrators and metrics keep per-run state.
type Job struct {
	Name string
	Sim  *Simulator
	X0   dynamo.State
}

type Ensemble struct {
	jobs    []Job
	workers int
}

// NewEnsemble runs jobs on up to workers goroutines; 0 means GOMAXPROCS.
func NewEnsemble(workers int, jobs ...Job) *Ensemble {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Ensemble{jobs: jobs, workers: workers}
}

func (e *Ensemble) Add(job Job) { e.jobs = append(e.jobs, job) }

func (e *Ensemble) Len() int { return len(e.jobs) }

// Run executes every job with the same config. Results keep job order. The
// first failing job's error is returned after all jobs finish.
func (e *Ensemble) Run(ctx context.Context, cfg dynamo.Config) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, len(e.jobs))
	errs := make([]error, len(e.jobs))

	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup
	for i := range e.jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			job := e.jobs[idx]
			results[idx], errs[idx] = job.Sim.Run(ctx, job.X0, cfg)
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("ensemble job %s: %w", e.jobs[i].Name, err)
		}
	}

	return results, nil
}
