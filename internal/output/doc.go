// Package output provides structured output handling for the worklog CLI.
//
// Every command writes through a Printer, which switches between human and
// JSON output. Human output is styled with lipgloss; styles are cleared when
// the writer is not a terminal so that prompt embedding and pipes receive
// plain text.
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonMode, output.IsTTY(cmd.OutOrStdout()))
//	printer.KeyValue("Directory", rec.Dir)
//	printer.Error(err)
//
// # Exit Codes
//
//	output.ExitSuccess     // 0
//	output.ExitUserError   // 1: bad arguments, nothing to act on
//	output.ExitSystemError // 2: log file or subprocess I/O failure
//
// Errors built with NewUserError, NewSystemError and NewSystemErrorWithCause
// carry their exit code to main, which hands it to os.Exit.
package output
