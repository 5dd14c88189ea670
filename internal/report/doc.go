// Package report derives read-only views from a full pass over the work log:
// per-day summaries, time share by project, tag inventory and per-directory
// history.
//
// Every reporter consumes an iter.Seq2[worklog.Line, error], normally
// Store.Lines, and stops at the first read error.
package report
