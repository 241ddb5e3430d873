// Package cpu implements the LS-8 microprocessor, its binary loader, and its
// assembler.
//
// The CPU consists of a program counter (PC), eight 8-bit general-purpose
// registers (r0-r7), a 256 byte memory, and an ALU. Register r7 is reserved
// as the stack pointer (SP) for a descending stack held in memory, shared by
// PUSH/POP and CALL/RET.
//
// Programs are loaded either from a line-oriented file of binary literals, or
// assembled from LS-8 mnemonics with labels, equates, and compile-time
// expression evaluation.
package cpu
