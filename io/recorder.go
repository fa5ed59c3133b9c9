package io

import (
	"fmt"
	"iter"
	"maps"
)

// Recorder keeps printed values in memory, up to Capacity values.
type Recorder struct {
	Capacity int // Maximum values kept, 0 is unlimited.

	Values []uint32
	Exited bool
}

var _ Channel = (*Recorder)(nil)

// Defines returns the recorder capacity, if limited.
func (rec *Recorder) Defines() iter.Seq2[string, string] {
	defines := map[string]string{}
	if rec.Capacity > 0 {
		defines["CONSOLE_CAPACITY"] = fmt.Sprintf("%d", rec.Capacity)
	}
	return maps.All(defines)
}

// Rewind discards all recorded values.
func (rec *Recorder) Rewind() {
	rec.Values = nil
	rec.Exited = false
}

// PrintInt records a value. Returns ErrChannelFull if the recorder has
// reached capacity.
func (rec *Recorder) PrintInt(value uint32) (err error) {
	if rec.Exited {
		err = ErrChannelClosed
		return
	}
	if rec.Capacity > 0 && len(rec.Values) >= rec.Capacity {
		err = ErrChannelFull
		return
	}
	rec.Values = append(rec.Values, value)
	return
}

// Exit records the halt.
func (rec *Recorder) Exit() (err error) {
	if rec.Exited {
		err = ErrChannelClosed
		return
	}
	rec.Exited = true
	return
}
