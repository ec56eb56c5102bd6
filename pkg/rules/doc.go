// Package rules compiles declarative rules from the configuration into
// engine rules.
//
// A rule is an ordered list of steps. Each step has an action:
//
//	mkdir  create Path (and parents) if missing
//	trash  send matching paths to the trash
//	move   move matching paths into Destination
//
// Trash and move steps select paths either with glob Patterns, filtered by
// a When block, or with a single literal Path:
//
//	[[rules]]
//	name = "Trash old temporary files"
//
//	  [[rules.steps]]
//	  action = "trash"
//	  patterns = ["~/Outbox/*.tmp.*"]
//	  when = { accessed_older_than = "1w" }
//
// Every When condition that is set must hold for a path to be acted on.
// Compile reports every problem it finds at once so `tidyup check` can show
// them together.
package rules
