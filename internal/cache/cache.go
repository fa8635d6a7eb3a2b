package cache

import (
	"log/slog"
	"time"
)

// Cache is a generic read-through cache for rarely changing lists,
// such as category and tag names.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Len() int
}

// Sweeper is implemented by caches that can drop expired entries.
type Sweeper interface {
	SweepExpired() int
}

// Janitor periodically sweeps expired entries out of registered caches.
type Janitor struct {
	logger *slog.Logger
	caches []Sweeper
	stop   chan struct{}
	done   chan struct{}
}

// NewJanitor creates a janitor. Call Register before Start.
func NewJanitor(logger *slog.Logger) *Janitor {
	return &Janitor{
		logger: logger,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Register adds a cache to the sweep rotation.
func (j *Janitor) Register(c Sweeper) {
	j.caches = append(j.caches, c)
}

// Start begins sweeping at the given interval until Stop is called.
func (j *Janitor) Start(interval time.Duration) {
	go j.run(interval)
}

func (j *Janitor) run(interval time.Duration) {
	defer close(j.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			swept := 0
			for _, c := range j.caches {
				swept += c.SweepExpired()
			}
			if swept > 0 {
				j.logger.Debug("cache sweep", "removed", swept)
			}
		case <-j.stop:
			return
		}
	}
}

// Stop halts the sweep loop and waits for it to finish.
func (j *Janitor) Stop() {
	close(j.stop)
	<-j.done
}
