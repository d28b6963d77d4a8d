package ctx

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pool is the external thread pool collaborator of the container: it runs
// job(i) for i in [0,N) and waits for all of them, nothing more. nthreads==1
// runs inline without spawning a goroutine, matching the documented
// "passing nthreads==1 executes inline" behaviour.
//
// It is built on golang.org/x/sync/errgroup, the fork-join primitive for
// exactly this "launch N, wait for all, propagate the first error" shape.
type Pool struct {
	NThreads int
}

// NewPool returns a Pool sized to nthreads (clamped to at least 1).
func NewPool(nthreads int) Pool {
	if nthreads < 1 {
		nthreads = 1
	}

	return Pool{NThreads: nthreads}
}

// Run invokes job(i) for every i in [0, njobs), across at most p.NThreads
// goroutines, and returns the first error any job returned. With more than
// one thread, the other jobs are not cancelled (the "job functions are
// leaves" rule; there is no cancellation token) and Run blocks until all jobs
// complete. On the inline path (one thread or one job), Run returns at the
// first failing job and the remaining jobs do not run.
func (p Pool) Run(njobs int, job func(i int) error) error {
	if njobs <= 0 {
		return nil
	}

	if p.NThreads <= 1 || njobs == 1 {
		for i := 0; i < njobs; i++ {
			if err := job(i); err != nil {
				return err
			}
		}

		return nil
	}

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(p.NThreads)

	for i := 0; i < njobs; i++ {
		i := i
		g.Go(func() error { return job(i) })
	}

	return g.Wait()
}
