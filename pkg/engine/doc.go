// Package engine runs an ordered list of named rules.
//
// A rule is a name and a body. The body receives a *Context that exposes
// the three capabilities a rule may use: a Globber to find paths, an
// Inspector to ask questions about them, and an Actor to move, rename,
// trash or create them. Capabilities are interfaces injected through
// Options so tests can substitute fakes.
//
// An engine moves through Idle, Running and then Completed or Failed.
// Failed means the run never started: a rule registration was rejected,
// a capability is missing, or the bootstrap hook returned an error. Once
// running, a rule that returns an error or panics is logged and recorded
// in the Result, and the next rule runs. Rules run one at a time in
// registration order, so later rules see the effects of earlier ones.
package engine
