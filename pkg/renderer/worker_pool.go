package renderer

import (
	"sync"
	"sync/atomic"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile   *Tile
	Pass   PassKind
	TaskID int
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID  int
	Samples int // Camera rays traced for the tile
}

// TileRenderFunc renders one tile into the caller's buffer
type TileRenderFunc func(task TileTask) TileResult

// WorkerPool manages parallel tile rendering. Workers persist across passes
// and write disjoint tile regions of a shared buffer.
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	numWorkers  int
	render      TileRenderFunc
	wg          sync.WaitGroup
	stopOnce    sync.Once
	stopped     atomic.Bool
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int, render TileRenderFunc) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}

	return &WorkerPool{
		taskQueue:   make(chan TileTask, numWorkers*2),
		resultQueue: make(chan TileResult, numWorkers*2),
		numWorkers:  numWorkers,
		render:      render,
	}
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run()
	}
}

// Stop gracefully shuts down all workers. Safe to call more than once.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		wp.stopped.Store(true)
		close(wp.taskQueue) // No more tasks
		wp.wg.Wait()        // Wait for workers to finish
		close(wp.resultQueue)
	})
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// RenderTiles renders every tile for one pass and returns once all of them
// are done, with the total number of samples traced. A stopped pool renders
// nothing and returns 0.
func (wp *WorkerPool) RenderTiles(tiles []*Tile, pass PassKind) int {
	if wp.stopped.Load() {
		return 0
	}

	// Submit from a separate goroutine so a full result queue cannot block submission
	go func() {
		for i, tile := range tiles {
			wp.SubmitTask(TileTask{Tile: tile, Pass: pass, TaskID: i})
		}
	}()

	samples := 0
	for range tiles {
		result, ok := wp.GetResult()
		if !ok {
			break
		}
		samples += result.Samples
	}
	return samples
}

// run is the main worker loop
func (wp *WorkerPool) run() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		wp.resultQueue <- wp.render(task)
	}
}
