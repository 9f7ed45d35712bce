package convert

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"
)

// Job is one file in a batch.
type Job struct {
	Path string
	// Data, when non-nil, is converted instead of reading Path, so callers
	// that already hashed the input convert the same bytes.
	Data []byte
	// Observer, when set, replaces Options.Observer for this job.
	Observer Observer
}

// Outcome pairs a job with its result. Err may be ErrEmptyResult alongside a
// valid Result.
type Outcome struct {
	Job      Job
	Result   *Result
	Err      error
	Duration time.Duration
}

// Batch converts jobs concurrently with at most workers in flight (zero means
// GOMAXPROCS). Outcomes keep the order of jobs. Files are independent; one
// failure does not stop the others. A cancelled context marks jobs that have
// not started with the context error.
func Batch(ctx context.Context, jobs []Job, workers int, opts Options) []Outcome {
	return BatchWithProgress(ctx, jobs, workers, opts, nil)
}

// Progress is called once per finished job with the number finished so far.
// Calls are serialized.
type Progress func(out Outcome, done, total int)

// BatchWithProgress is Batch with a completion callback.
func BatchWithProgress(ctx context.Context, jobs []Job, workers int, opts Options, progress Progress) []Outcome {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	outcomes := make([]Outcome, len(jobs))
	sem := make(chan struct{}, workers)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	finish := func(out Outcome) {
		if progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		progress(out, done, len(jobs))
	}

	for i, job := range jobs {
		outcomes[i].Job = job
		select {
		case <-ctx.Done():
			outcomes[i].Err = ctx.Err()
			finish(outcomes[i])
			continue
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()
			defer func() { <-sem }()
			jobOpts := opts
			if job.Observer != nil {
				jobOpts.Observer = job.Observer
			}
			started := time.Now()
			res, err := convertJob(ctx, job, jobOpts)
			outcomes[i].Result = res
			outcomes[i].Err = err
			outcomes[i].Duration = time.Since(started)
			finish(outcomes[i])
		}(i, job)
	}
	wg.Wait()
	return outcomes
}

func convertJob(ctx context.Context, job Job, opts Options) (*Result, error) {
	data := job.Data
	if data == nil {
		var err error
		if data, err = os.ReadFile(job.Path); err != nil {
			return nil, fmt.Errorf("read %s: %w", job.Path, err)
		}
	}
	return Convert(ctx, data, opts)
}
