// Package io provides the output channels of the LS-8 emulator.
package io

// Channel defines the interface for an output channel written by the CPU.
type Channel interface {
	// Send writes a single value to the channel.
	Send(value byte) error
}
