package service

import (
	"errors"
	"sync"
)

var errNotConnected = errors.New("storage backend not connected")

// Gate reports whether the storage engine may be used. Store consults it before
// every operation.
type Gate interface {
	Ready() error
}

// Switch is a Gate that can be opened and closed from ping results.
type Switch interface {
	Gate
	MarkReady()
	MarkUnavailable(err error)
}

// Readiness is a Gate opened by the bootstrap code once the engine answered a
// ping, and toggled afterwards by Store.Ping.
type Readiness struct {
	mu  sync.RWMutex
	err error
}

// NewReadiness starts closed.
func NewReadiness() *Readiness {
	return &Readiness{err: errNotConnected}
}

func (r *Readiness) MarkReady() {
	r.mu.Lock()
	r.err = nil
	r.mu.Unlock()
}

// MarkUnavailable closes the gate; err is reported by Ready.
func (r *Readiness) MarkUnavailable(err error) {
	if err == nil {
		err = errNotConnected
	}
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

func (r *Readiness) Ready() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}
