// Package worklog implements the append-only work log: line parsing, the
// bounded tail-window state lookup, appends, streaming iteration and the
// decision of when a new entry is due.
//
// # File Format
//
// The log is UTF-8 text, one line per entry:
//
//	20240101-0900 /home/u/repo/worklog [main ! origin.example/u/worklog.git 1a2b3c4]
//	tags: refactor cli
//	free text notes are kept verbatim
//
// Timestamped lines are records; a "tags:" line annotates the record before
// it; everything else is free text. ParseLine is the only place these rules
// live.
//
// # State Lookup
//
// Store.LastState reads at most TailWindow bytes from the end of the file and
// scans backward for the most recent record. It never falls back to reading
// the whole file, so a record followed by more than TailWindow bytes of free
// text is not found. An empty log is a valid state, not an error.
package worklog
