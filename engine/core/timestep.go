package core

// Timestep is the single precision view of a PreciseTimestep for consumers that
// do not need full precision.
type Timestep struct {
	Time  float32
	Delta float32
}

// PreciseTimestep carries the authoritative loop timing in seconds.
type PreciseTimestep struct {
	Time  float64
	Delta float64
}

func NewPreciseTimestep(time, delta float64) PreciseTimestep {
	return PreciseTimestep{Time: time, Delta: delta}
}

func (ts PreciseTimestep) Timestep() Timestep {
	return Timestep{Time: float32(ts.Time), Delta: float32(ts.Delta)}
}

// StepType tells a plugin hook whether it runs before or after the game's own step.
type StepType uint8

const (
	PreGameStep StepType = iota
	GameStep
	PostGameStep
)

func (s StepType) String() string {
	switch s {
	case PreGameStep:
		return "pre"
	case GameStep:
		return "game"
	case PostGameStep:
		return "post"
	default:
		return "unknown"
	}
}
