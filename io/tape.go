package io

import (
	"io"
	"strconv"
)

// Tape is a line printer: each value sent is written to Output as a
// decimal number followed by a newline.
type Tape struct {
	Output io.Writer

	Count int // Values written since creation.
}

var _ Channel = (*Tape)(nil)

// Send writes value to the output as a decimal line.
func (tc *Tape) Send(value byte) (err error) {
	if tc.Output == nil {
		err = ErrChannelClosed
		return
	}

	line := strconv.AppendUint(nil, uint64(value), 10)
	line = append(line, '\n')

	_, err = tc.Output.Write(line)
	if err != nil {
		return
	}

	tc.Count++
	return
}
