package renderer

import (
	"context"
	"runtime"
	"sync"

	"github.com/df07/go-halftone-raytracer/pkg/raster"
)

// BandTask represents a band rendering task for the worker pool
type BandTask struct {
	Band   Band
	Target *raster.Gray // Shared raster; each band writes only its own rows
}

// BandTaskResult contains the result from rendering a band
type BandTaskResult struct {
	Band  Band
	Stats RenderStats
	Error error
}

// WorkerPool renders bands in parallel
type WorkerPool struct {
	taskQueue   chan BandTask
	resultQueue chan BandTaskResult
	raytracer   *Raytracer
	numWorkers  int
	wg          sync.WaitGroup
}

// NewWorkerPool creates a pool able to queue maxTasks bands without blocking.
// numWorkers <= 0 uses one worker per CPU.
func NewWorkerPool(rt *Raytracer, maxTasks, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		taskQueue:   make(chan BandTask, maxTasks),
		resultQueue: make(chan BandTaskResult, maxTasks),
		raytracer:   rt,
		numWorkers:  numWorkers,
	}
}

// Start begins all workers. Tasks queued after ctx is done are answered with
// ctx.Err() instead of being rendered.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run(ctx)
	}
}

// Stop waits for queued tasks to drain and shuts the workers down
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask queues a band
func (wp *WorkerPool) SubmitTask(task BandTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed band result
func (wp *WorkerPool) GetResult() (BandTaskResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

func (wp *WorkerPool) run(ctx context.Context) {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		if err := ctx.Err(); err != nil {
			wp.resultQueue <- BandTaskResult{Band: task.Band, Error: err}
			continue
		}

		stats := wp.raytracer.RenderRows(task.Target, task.Band.Y0, task.Band.Y1)
		wp.resultQueue <- BandTaskResult{Band: task.Band, Stats: stats}
	}
}
