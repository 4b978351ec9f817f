/*
Package local provides in-process implementations of the platform-facing
alarm interfaces.

PURPOSE:
  On Android-like hosts the exact-alarm scheduler and the capability channel
  are OS services. This package supplies the same contracts in-process: a
  timer-driven one-shot scheduler for the demo server and integration tests,
  and a Platform that always grants exact alarms.

DESIGN:
  - Runs a single background goroutine with one timer
  - Armed registrations sit in a min-heap ordered by fire instant
  - Re-scheduling an armed id replaces it; cancel marks the heap entry dead
  - Firing invokes the registered callback outside the lock

USAGE:
  sched := local.NewScheduler(alarm.Fire, logger)
  sched.Start()
  // ... later
  sched.Stop()

SEE ALSO:
  - alarm/service.go: ExactScheduler and Platform contracts
  - alarm/signal.go: The fire callback this scheduler invokes
*/
package local

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler is an in-process, timer-driven ExactScheduler.
type Scheduler struct {
	callback func(id int32)
	log      zerolog.Logger
	now      func() time.Time

	mu    sync.Mutex
	queue armQueue
	armed map[int32]*armEntry

	wake chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewScheduler creates a scheduler that invokes callback for every fired id.
func NewScheduler(callback func(id int32), log zerolog.Logger) *Scheduler {
	return &Scheduler{
		callback: callback,
		log:      log.With().Str("component", "local-scheduler").Logger(),
		now:      time.Now,
		armed:    make(map[int32]*armEntry),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
}

// Start begins the firing loop.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
	s.log.Info().Msg("started")
}

// Stop terminates the firing loop and waits for it to exit.
// Armed registrations are discarded.
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
	s.log.Info().Msg("stopped")
}

// Schedule arms a one-shot registration for id at the given instant.
// An already-armed id is replaced.
func (s *Scheduler) Schedule(_ context.Context, at time.Time, id int32) error {
	s.mu.Lock()
	if old, ok := s.armed[id]; ok {
		old.dead = true
	}
	e := &armEntry{at: at, id: id}
	heap.Push(&s.queue, e)
	s.armed[id] = e
	s.mu.Unlock()

	s.kick()
	return nil
}

// Cancel disarms id. Unknown ids are ignored.
func (s *Scheduler) Cancel(_ context.Context, id int32) error {
	s.mu.Lock()
	if e, ok := s.armed[id]; ok {
		e.dead = true
		delete(s.armed, id)
	}
	s.mu.Unlock()

	s.kick()
	return nil
}

// kick nudges the run loop to re-evaluate the queue head.
func (s *Scheduler) kick() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		due, wait := s.collect()

		for _, id := range due {
			s.log.Debug().Int32("id", id).Msg("firing")
			s.callback(id)
		}
		if len(due) > 0 {
			// The queue head changed; re-evaluate before sleeping.
			continue
		}

		if wait >= 0 {
			timer.Reset(wait)
		}

		select {
		case <-timer.C:
		case <-s.wake:
			if wait >= 0 && !timer.Stop() {
				<-timer.C
			}
		case <-s.stop:
			if wait >= 0 && !timer.Stop() {
				<-timer.C
			}
			return
		}
	}
}

// collect pops every due registration and reports how long to sleep until
// the next one (negative when the queue is empty).
func (s *Scheduler) collect() (due []int32, wait time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for s.queue.Len() > 0 {
		head := s.queue[0]
		switch {
		case head.dead:
			heap.Pop(&s.queue)
		case !head.at.After(now):
			heap.Pop(&s.queue)
			delete(s.armed, head.id)
			due = append(due, head.id)
		default:
			return due, head.at.Sub(now)
		}
	}
	return due, -1
}

// =============================================================================
// ARM QUEUE - Min-heap by fire instant
// =============================================================================

type armEntry struct {
	at   time.Time
	id   int32
	dead bool
}

type armQueue []*armEntry

var _ heap.Interface = (*armQueue)(nil)

func (q armQueue) Len() int           { return len(q) }
func (q armQueue) Less(i, j int) bool { return q[i].at.Before(q[j].at) }
func (q armQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *armQueue) Push(x any)        { *q = append(*q, x.(*armEntry)) }
func (q *armQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}
