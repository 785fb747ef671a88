package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/fpsanim/engine/core"
)

/** @brief A unit of work executed by a worker. */
type Job func()

/** @brief A unit of work executed once per index of a parallel-for batch. */
type JobParallelFor func(index int)

/**
 * @brief Handle to scheduled work. Complete blocks until every job behind the
 * handle has finished. A nil handle is already complete.
 */
type JobHandle struct {
	wg sync.WaitGroup
}

/**
 * @brief Joins the scheduled work.
 */
func (h *JobHandle) Complete() {
	if h == nil {
		return
	}
	h.wg.Wait()
}

/**
 * @brief Fixed pool of workers fed by a buffered channel. Work is submitted
 * with Schedule or ScheduleParallelFor and joined with JobHandle.Complete.
 * There is no cancellation: once scheduled, a job always runs.
 */
type JobSystem struct {
	numWorkers int
	jobQueue   chan Job
	wg         sync.WaitGroup

	mutex  sync.RWMutex
	closed bool
}

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, core.ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, core.ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan Job, channelSize),
	}

	js.start()

	core.LogDebug("job system started with %d workers", numWorkers)
	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func(worker int) {
			defer js.wg.Done()
			for job := range js.jobQueue {
				run(worker, job)
			}
		}(i)
	}
}

// run executes a job and keeps the worker alive if it panics.
func run(worker int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			core.LogError("job on worker %d panicked: %v", worker, r)
		}
	}()
	job()
}

/**
 * @brief Number of workers in the pool. A nil system reports zero.
 */
func (js *JobSystem) Workers() int {
	if js == nil {
		return 0
	}
	return js.numWorkers
}

/**
 * @brief Shuts the job system down. Queued jobs are drained before it returns.
 */
func (js *JobSystem) Shutdown() error {
	if js == nil {
		return nil
	}
	js.mutex.Lock()
	if js.closed {
		js.mutex.Unlock()
		return fmt.Errorf("job system shutdown: %w", core.ErrJobSystemClosed)
	}
	js.closed = true
	close(js.jobQueue)
	js.mutex.Unlock()

	js.wg.Wait()
	return nil
}

/**
 * @brief Submits the job to the pool. A nil or shut down job system runs the
 * job inline on the calling goroutine before returning.
 * @param job The work to execute.
 * @returns A handle to join the job with.
 */
func (js *JobSystem) Schedule(job Job) *JobHandle {
	h := &JobHandle{}
	h.wg.Add(1)
	task := func() {
		defer h.wg.Done()
		job()
	}
	if !js.submit(task) {
		run(-1, task)
	}
	return h
}

/**
 * @brief Runs job once for every index in [0, count). Indices are split in
 * contiguous batches, one batch per worker at most.
 * @param count The number of indices.
 * @param job The work to execute per index.
 * @returns A handle to join the whole batch with.
 */
func (js *JobSystem) ScheduleParallelFor(count int, job JobParallelFor) *JobHandle {
	h := &JobHandle{}
	if count <= 0 {
		return h
	}

	batches := js.Workers()
	if batches == 0 || batches > count {
		batches = count
	}
	size := (count + batches - 1) / batches

	for start := 0; start < count; start += size {
		end := start + size
		if end > count {
			end = count
		}
		first, last := start, end
		h.wg.Add(1)
		task := func() {
			defer h.wg.Done()
			for i := first; i < last; i++ {
				job(i)
			}
		}
		if !js.submit(task) {
			run(-1, task)
		}
	}
	return h
}

// submit queues the job. Returns false when the caller has to run it inline.
func (js *JobSystem) submit(job Job) bool {
	if js == nil {
		return false
	}
	js.mutex.RLock()
	defer js.mutex.RUnlock()
	if js.closed {
		return false
	}
	js.jobQueue <- job
	return true
}
