package clock

import "time"

// Clock is the engine's time source, injectable for tests. The rules
// only ever need server time in milliseconds, for the chess clock.
type Clock interface {
	NowMillis() int64
}

type systemClock struct{}

func (systemClock) NowMillis() int64 {
	return time.Now().UnixMilli()
}

// System returns the real wall clock.
func System() Clock {
	return systemClock{}
}

// Fixed is a test clock that always returns the set value.
type Fixed struct {
	Millis int64
}

func (f *Fixed) NowMillis() int64 {
	return f.Millis
}
