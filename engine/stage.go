package engine

import "github.com/spaghettifunk/ember/engine/fsm"

type Stage uint8

const (
	// Core is constructed but Init was not called
	StageUninitialized Stage = iota
	// Init completed, Dispatch can run
	StageInitialized
	// Dispatch is running the loop
	StageRunning
	// Shutdown is tearing everything down
	StageShuttingDown
	// Shutdown completed or Init failed
	StageTerminated
)

func (s Stage) String() string {
	switch s {
	case StageUninitialized:
		return "uninitialized"
	case StageInitialized:
		return "initialized"
	case StageRunning:
		return "running"
	case StageShuttingDown:
		return "shutting down"
	case StageTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

type stageEvent uint8

const (
	eventInitialized stageEvent = iota
	eventInitFailed
	eventDispatch
	eventStopped
	eventShutdown
	eventTerminated
)

func newLifecycle() *fsm.Machine[Stage, stageEvent] {
	return fsm.NewMachine(StageUninitialized,
		fsm.Transition[Stage, stageEvent]{From: StageUninitialized, Event: eventInitialized, To: StageInitialized},
		fsm.Transition[Stage, stageEvent]{From: StageUninitialized, Event: eventInitFailed, To: StageTerminated},
		fsm.Transition[Stage, stageEvent]{From: StageInitialized, Event: eventDispatch, To: StageRunning},
		fsm.Transition[Stage, stageEvent]{From: StageRunning, Event: eventStopped, To: StageInitialized},
		fsm.Transition[Stage, stageEvent]{From: StageInitialized, Event: eventShutdown, To: StageShuttingDown},
		fsm.Transition[Stage, stageEvent]{From: StageShuttingDown, Event: eventTerminated, To: StageTerminated},
	)
}
