package systems

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spaghettifunk/ember/engine/core"
)

// Job is a unit of work run on one of the pool's workers.
type Job struct {
	Name string
	Run  func() error
	// OnComplete runs on the worker when Run succeeded.
	OnComplete func()
	// OnFailure runs on the worker when Run failed.
	OnFailure func(err error)
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan Job
	wg         sync.WaitGroup
	logger     *core.Logger

	mu       sync.RWMutex
	isClosed bool
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
var ErrJobSystemClosed = errors.New("job system is shut down")

func NewJobSystem(logger *core.Logger, numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan Job, channelSize),
		logger:     core.LoggerOrDefault(logger),
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				js.run(job)
			}
		}()
	}
}

func (js *JobSystem) run(job Job) {
	err := js.safeRun(job)
	if err != nil {
		js.logger.Error("job '%s' failed: %s", job.Name, err)
		if job.OnFailure != nil {
			job.OnFailure(err)
		}
		return
	}
	if job.OnComplete != nil {
		job.OnComplete()
	}
}

// safeRun keeps a panicking job from taking the worker down with it.
func (js *JobSystem) safeRun(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if job.Run == nil {
		return nil
	}
	return job.Run()
}

/**
 * @brief Shuts the job system down, waiting for queued jobs to finish.
 */
func (js *JobSystem) Shutdown() error {
	js.mu.Lock()
	if js.isClosed {
		js.mu.Unlock()
		return ErrJobSystemClosed
	}
	js.isClosed = true
	close(js.jobQueue)
	js.mu.Unlock()

	js.wg.Wait()
	return nil
}

// SubmitNonBlocking queues the job from a new goroutine and returns immediately.
func (js *JobSystem) SubmitNonBlocking(job Job) {
	go func() {
		if err := js.Submit(job); err != nil {
			js.logger.Warn("dropping job '%s': %s", job.Name, err)
		}
	}()
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while the
 * queue is full.
 */
func (js *JobSystem) Submit(job Job) error {
	js.mu.RLock()
	defer js.mu.RUnlock()
	if js.isClosed {
		return ErrJobSystemClosed
	}
	js.jobQueue <- job
	return nil
}
