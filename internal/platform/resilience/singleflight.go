package resilience

import (
	"sync"

	"github.com/sourcegraph/conc/panics"
)

// SingleFlight collapses concurrent calls that share a key into one
// execution. A panic in fn is raised again in every caller once the
// waiters have been released.
type SingleFlight[T any] struct {
	mu    sync.Mutex
	calls map[string]*flightCall[T]
}

type flightCall[T any] struct {
	done      chan struct{}
	val       T
	err       error
	recovered *panics.Recovered
}

func (c *flightCall[T]) result() (T, error) {
	if c.recovered != nil {
		panic(c.recovered)
	}
	return c.val, c.err
}

// Do reports shared=true when the caller joined a call already in flight.
func (g *SingleFlight[T]) Do(key string, fn func() (T, error)) (val T, err error, shared bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flightCall[T])
	}
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		<-c.done
		val, err = c.result()
		return val, err, true
	}

	c := &flightCall[T]{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	var catcher panics.Catcher
	catcher.Try(func() { c.val, c.err = fn() })
	c.recovered = catcher.Recovered()

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
	close(c.done)

	val, err = c.result()
	return val, err, false
}

// InFlight reports whether a call for key is running.
func (g *SingleFlight[T]) InFlight(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.calls[key]
	return ok
}
