package terminal

import (
	"fmt"
	"time"

	"github.com/spaghettifunk/ember/engine/api"
	"github.com/spaghettifunk/ember/engine/platform"
	"github.com/spaghettifunk/ember/engine/systems"
)

// System owns the screen, turns its events into engine events and runs
// background work for the game.
type System struct {
	term *Terminal
	jobs *systems.JobSystem
}

func NewSystem(t *Terminal) *System {
	return &System{term: t}
}

func (s *System) Name() string {
	return "terminal-system"
}

func (s *System) Init() error {
	if err := s.term.open(); err != nil {
		return fmt.Errorf("failed to initialize the terminal: %w", err)
	}
	jobs, err := systems.NewJobSystem(s.term.logger, s.term.workers, eventBufferSize)
	if err != nil {
		s.term.close()
		return err
	}
	s.jobs = jobs
	w, h := s.term.screen.Size()
	s.term.logger.Info("Terminal opened at %dx%d", w, h)
	return nil
}

func (s *System) Shutdown() error {
	err := s.jobs.Shutdown()
	s.term.close()
	return err
}

// GenerateEvents drains the pending screen events without blocking.
func (s *System) GenerateEvents(video api.Video, input api.Input, ui api.UI) bool {
	for {
		select {
		case ev := <-s.term.events:
			for _, e := range translate(ev) {
				if !platform.Route(e, video, input, ui) {
					return false
				}
			}
		default:
			return true
		}
	}
}

// Spawn runs fn on the worker pool.
func (s *System) Spawn(name string, fn func() error) {
	if err := s.jobs.Submit(systems.Job{Name: name, Run: fn}); err != nil {
		s.term.logger.Warn("could not spawn '%s': %s", name, err)
	}
}

func (s *System) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (s *System) AssetsDir() string {
	return s.term.assetsDir
}
