// Package host connects the resonator to block-based audio hosts.
//
// It owns the automatable parameter layout, a lock-free parameter store that
// may be written from any goroutine, key-value state save and restore, and a
// Processor that snapshots the parameters once per block.
package host
