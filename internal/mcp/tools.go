package mcp

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/worklog/internal/git"
	"github.com/gorewood/worklog/internal/report"
	"github.com/gorewood/worklog/internal/worklog"
)

func withDefaults(deps Deps) Deps {
	if deps.Reconciler == nil {
		deps.Reconciler = worklog.NewReconciler(worklog.DefaultInterval)
	}
	if deps.Git == nil {
		deps.Git = git.ExecQuerier{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}
	return deps
}

// RecordRef is a log record with its time in RFC 3339 form.
type RecordRef struct {
	Time string `json:"time" jsonschema:"record time (RFC 3339, minute resolution)"`
	Dir  string `json:"dir"  jsonschema:"working directory"`
	Git  string `json:"git"  jsonschema:"bracketed git summary, empty outside a repository"`
	Raw  string `json:"raw"  jsonschema:"the line as written"`
}

func toRecordRef(rec worklog.Record) RecordRef {
	return RecordRef{
		Time: rec.Time.Format(time.RFC3339),
		Dir:  rec.Dir,
		Git:  rec.Git,
		Raw:  rec.Raw,
	}
}

// dirOrCwd returns dir, or the server's working directory when dir is empty.
func dirOrCwd(deps Deps, dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	cwd, err := deps.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return cwd, nil
}

// --- State tool ---

// StateInput is the input for the state tool.
type StateInput struct {
	Dir string `json:"dir,omitempty" jsonschema:"directory to evaluate (default: the server's working directory)"`
}

// StateOutput is the output for the state tool.
type StateOutput struct {
	LastRecord       *RecordRef       `json:"last_record,omitempty" jsonschema:"most recent record in the tail of the log"`
	HasTags          bool             `json:"has_tags"              jsonschema:"whether a tags line follows the last record"`
	Dir              string           `json:"dir"                   jsonschema:"resolved directory that was evaluated"`
	Git              git.Info         `json:"git"                   jsonschema:"git state of the directory"`
	GitSummary       string           `json:"git_summary"           jsonschema:"bracketed git summary as it would be logged"`
	AppendDue        bool             `json:"append_due"            jsonschema:"whether the next prompt would write a record"`
	Reasons          []worklog.Reason `json:"reasons,omitempty"     jsonschema:"why a record is due"`
	MinutesRemaining int              `json:"minutes_remaining"     jsonschema:"minutes until the interval forces a record"`
}

func handleState(deps Deps) mcp.ToolHandlerFor[StateInput, StateOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input StateInput) (*mcp.CallToolResult, StateOutput, error) {
		dir, err := dirOrCwd(deps, input.Dir)
		if err != nil {
			return nil, StateOutput{}, err
		}
		dir = worklog.ResolvePath(dir)

		state, err := deps.Store.LastState()
		if err != nil {
			return nil, StateOutput{}, fmt.Errorf("reading last state: %w", err)
		}

		info := git.Capture(ctx, deps.Git, dir)
		decision := deps.Reconciler.Decide(state.Record, deps.Now(), dir, info.String())

		out := StateOutput{
			HasTags:          state.HasTags,
			Dir:              dir,
			Git:              info,
			GitSummary:       info.String(),
			AppendDue:        decision.Append,
			Reasons:          decision.Reasons,
			MinutesRemaining: decision.MinutesRemaining,
		}
		if state.Record != nil {
			ref := toRecordRef(*state.Record)
			out.LastRecord = &ref
		}
		return nil, out, nil
	}
}

// --- Summary tool ---

// SummaryInput is the input for the summary tool.
type SummaryInput struct {
	Last int `json:"last,omitempty" jsonschema:"only return the most recent N days (default all)"`
}

// SummaryOutput is the output for the summary tool.
type SummaryOutput struct {
	Days []report.DayBlock `json:"days" jsonschema:"one block per calendar date in log order"`
}

func handleSummary(deps Deps) mcp.ToolHandlerFor[SummaryInput, SummaryOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SummaryInput) (*mcp.CallToolResult, SummaryOutput, error) {
		if input.Last < 0 {
			return nil, SummaryOutput{}, errors.New("last must not be negative")
		}
		days, err := report.Summarize(deps.Store.Lines())
		if err != nil {
			return nil, SummaryOutput{}, fmt.Errorf("summarizing log: %w", err)
		}
		if input.Last > 0 && len(days) > input.Last {
			days = days[len(days)-input.Last:]
		}
		if days == nil {
			days = []report.DayBlock{}
		}
		return nil, SummaryOutput{Days: days}, nil
	}
}

// --- Percent tool ---

// PercentInput is the input for the percent tool.
type PercentInput struct {
	Marker string `json:"marker,omitempty" jsonschema:"directory name under which projects live (default from config)"`
}

// PercentOutput is the output for the percent tool.
type PercentOutput struct {
	Projects []report.ProjectShare `json:"projects" jsonschema:"record share per project in first-seen order"`
}

func handlePercent(deps Deps) mcp.ToolHandlerFor[PercentInput, PercentOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input PercentInput) (*mcp.CallToolResult, PercentOutput, error) {
		marker := input.Marker
		if marker == "" {
			marker = deps.ProjectMarker
		}
		shares, err := report.Percent(deps.Store.Lines(), marker, worklog.ResolvePath)
		if err != nil {
			return nil, PercentOutput{}, fmt.Errorf("computing percentages: %w", err)
		}
		return nil, PercentOutput{Projects: shares}, nil
	}
}

// --- Tags tool ---

// TagsInput is the input for the tags tool (no parameters needed).
type TagsInput struct{}

func handleTags(deps Deps) mcp.ToolHandlerFor[TagsInput, report.Inventory] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ TagsInput) (*mcp.CallToolResult, report.Inventory, error) {
		inv, err := report.TagInventory(deps.Store.Lines())
		if err != nil {
			return nil, report.Inventory{}, fmt.Errorf("reading tags: %w", err)
		}
		return nil, inv, nil
	}
}

// --- History tool ---

// HistoryInput is the input for the history tool.
type HistoryInput struct {
	Dir string `json:"dir,omitempty" jsonschema:"directory as recorded in the log (default: directory of the last record)"`
}

// HistoryBlock is one record in the target directory and its notes.
type HistoryBlock struct {
	Record RecordRef `json:"record" jsonschema:"record that opened the block"`
	Notes  []string  `json:"notes"  jsonschema:"lines written after the record"`
}

// HistoryOutput is the output for the history tool.
type HistoryOutput struct {
	Target   string         `json:"target"    jsonschema:"directory whose notes were found"`
	LevelsUp int            `json:"levels_up" jsonschema:"parents climbed from the requested directory"`
	Blocks   []HistoryBlock `json:"blocks"    jsonschema:"records and their notes in log order"`
}

func handleHistory(deps Deps) mcp.ToolHandlerFor[HistoryInput, HistoryOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input HistoryInput) (*mcp.CallToolResult, HistoryOutput, error) {
		dir := input.Dir
		if dir == "" {
			state, err := deps.Store.LastState()
			if err != nil {
				return nil, HistoryOutput{}, fmt.Errorf("reading last state: %w", err)
			}
			if state.Empty() {
				return nil, HistoryOutput{}, errors.New("no previous work log entry found")
			}
			dir = state.Record.Dir
		}

		open := func() iter.Seq2[worklog.Line, error] { return deps.Store.Lines() }
		res, err := report.History(open, dir)
		if err != nil {
			return nil, HistoryOutput{}, fmt.Errorf("reading history: %w", err)
		}

		out := HistoryOutput{
			Target:   res.Target,
			LevelsUp: res.LevelsUp,
			Blocks:   make([]HistoryBlock, 0, len(res.Blocks)),
		}
		for _, b := range res.Blocks {
			out.Blocks = append(out.Blocks, HistoryBlock{Record: toRecordRef(b.Record), Notes: b.Notes})
		}
		return nil, out, nil
	}
}

// --- Note tool ---

// NoteInput is the input for the note tool.
type NoteInput struct {
	Text string `json:"text" jsonschema:"note text, a single line (required)"`
}

// NoteOutput is the output for the note tool.
type NoteOutput struct {
	Line string `json:"line" jsonschema:"the line appended to the log"`
}

func handleNote(deps Deps) mcp.ToolHandlerFor[NoteInput, NoteOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input NoteInput) (*mcp.CallToolResult, NoteOutput, error) {
		text := strings.TrimSpace(input.Text)
		if text == "" {
			return nil, NoteOutput{}, errors.New("text is required")
		}
		if strings.ContainsAny(text, "\r\n") {
			return nil, NoteOutput{}, errors.New("text must be a single line")
		}
		if err := deps.Store.AppendRaw(text); err != nil {
			return nil, NoteOutput{}, fmt.Errorf("appending note: %w", err)
		}
		return nil, NoteOutput{Line: text}, nil
	}
}
