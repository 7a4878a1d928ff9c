package assets

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/spaghettifunk/ember/engine/resources"
)

// Sound is a WAV clip decoded into memory.
type Sound struct {
	resources.Base
	buffer *beep.Buffer
}

func (s *Sound) Format() beep.Format {
	return s.buffer.Format()
}

// Samples returns the clip length in samples.
func (s *Sound) Samples() int {
	return s.buffer.Len()
}

func (s *Sound) Duration() time.Duration {
	return s.buffer.Format().SampleRate.D(s.buffer.Len())
}

// Streamer returns a new streamer over the whole clip. Every call gets an
// independent position.
func (s *Sound) Streamer() beep.StreamSeeker {
	return s.buffer.Streamer(0, s.buffer.Len())
}

func LoadSound(l *resources.Loader) (*Sound, error) {
	f, err := l.Open()
	if err != nil {
		return nil, err
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, err
	}
	return &Sound{buffer: buf}, nil
}
