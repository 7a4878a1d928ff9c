package fsm

import (
	"errors"
	"fmt"
	"sync"
)

var ErrInvalidTransition = errors.New("invalid transition")

// Transition is one row of the transition table: firing Event while in From
// moves the machine to To.
type Transition[S, E comparable] struct {
	From  S
	Event E
	To    S
}

type key[S, E comparable] struct {
	from  S
	event E
}

// TransitionFunc observes a completed transition
type TransitionFunc[S, E comparable] func(from S, event E, to S)

// Machine is a flat finite state machine driven by an explicit transition table.
// It is safe for concurrent use.
type Machine[S, E comparable] struct {
	mu      sync.RWMutex
	current S
	table   map[key[S, E]]S
	hooks   []TransitionFunc[S, E]
}

// NewMachine creates a new FSM instance in the initial state
func NewMachine[S, E comparable](initial S, transitions ...Transition[S, E]) *Machine[S, E] {
	m := &Machine[S, E]{
		current: initial,
		table:   make(map[key[S, E]]S, len(transitions)),
	}
	for _, t := range transitions {
		m.table[key[S, E]{from: t.From, event: t.Event}] = t.To
	}
	return m
}

// OnTransition registers a hook called after every successful transition
func (m *Machine[S, E]) OnTransition(fn TransitionFunc[S, E]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, fn)
}

func (m *Machine[S, E]) State() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Is reports whether the machine is currently in state s
func (m *Machine[S, E]) Is(s S) bool {
	return m.State() == s
}

// Can reports whether event has a row for the current state
func (m *Machine[S, E]) Can(event E) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.table[key[S, E]{from: m.current, event: event}]
	return ok
}

// Fire applies event to the current state. The state is left untouched when the
// table has no matching row.
func (m *Machine[S, E]) Fire(event E) (S, error) {
	m.mu.Lock()
	from := m.current
	to, ok := m.table[key[S, E]{from: from, event: event}]
	if !ok {
		m.mu.Unlock()
		return from, fmt.Errorf("%w: event %v in state %v", ErrInvalidTransition, event, from)
	}
	m.current = to
	hooks := make([]TransitionFunc[S, E], len(m.hooks))
	copy(hooks, m.hooks)
	m.mu.Unlock()

	// Hooks run outside the lock so they can query the machine
	for _, h := range hooks {
		h(from, event, to)
	}
	return to, nil
}
