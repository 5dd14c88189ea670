package worklog

import (
	"path/filepath"
	"time"
)

// DefaultInterval is the idle time after which a new record is forced.
const DefaultInterval = 15 * time.Minute

// Reason names a condition that requires a new record.
type Reason string

// Reasons reported by Decide.
const (
	ReasonNoState   Reason = "no_state"
	ReasonInterval  Reason = "interval"
	ReasonDirectory Reason = "directory"
	ReasonGit       Reason = "git"
)

// Decision is the outcome of comparing the last record with the present.
type Decision struct {
	Append  bool          `json:"append"`
	Reasons []Reason      `json:"reasons,omitempty"`
	Elapsed time.Duration `json:"elapsed"`

	// MinutesRemaining is the countdown shown in the prompt.
	MinutesRemaining int `json:"minutes_remaining"`
}

// IntervalElapsed reports whether the idle interval triggered the append.
func (d Decision) IntervalElapsed() bool {
	for _, r := range d.Reasons {
		if r == ReasonInterval {
			return true
		}
	}
	return false
}

// Reconciler decides when a new record is due. It performs no I/O beyond
// the Resolve function it is given.
type Reconciler struct {
	Interval time.Duration
	// Resolve canonicalizes a directory before comparison.
	Resolve func(string) string
}

// NewReconciler returns a Reconciler using ResolvePath. A non-positive
// interval selects DefaultInterval.
func NewReconciler(interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Reconciler{Interval: interval, Resolve: ResolvePath}
}

// Decide reports whether a record for (dir, git) must be appended at now,
// given the last record (nil when the log has none).
func (r *Reconciler) Decide(last *Record, now time.Time, dir, git string) Decision {
	resolve := r.Resolve
	if resolve == nil {
		resolve = filepath.Clean
	}

	var d Decision
	if last == nil {
		d.Reasons = append(d.Reasons, ReasonNoState)
	} else {
		d.Elapsed = now.Sub(last.Time)
		if d.Elapsed >= r.Interval {
			d.Reasons = append(d.Reasons, ReasonInterval)
		}
		if resolve(last.Dir) != resolve(dir) {
			d.Reasons = append(d.Reasons, ReasonDirectory)
		}
		if last.Git != git {
			d.Reasons = append(d.Reasons, ReasonGit)
		}
	}
	d.Append = len(d.Reasons) > 0

	elapsed := d.Elapsed
	if d.Append {
		// the record about to be written is treated as one second old
		elapsed = time.Second
	}
	d.MinutesRemaining = MinutesRemaining(r.Interval, elapsed)
	return d
}

// MinutesRemaining returns the minutes left until interval elapses, rounded
// up, clamped to [0, interval].
func MinutesRemaining(interval, elapsed time.Duration) int {
	total := int(interval / time.Minute)
	left := int(interval/time.Second) - int(elapsed/time.Second)
	if left <= 0 {
		return 0
	}
	return min((left+59)/60, total)
}

// ResolvePath returns the absolute, symlink-free form of dir. When the path
// cannot be resolved (it was logged on another host or in a container) the
// cleaned absolute path is returned.
func ResolvePath(dir string) string {
	if dir == "" {
		return ""
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Clean(dir)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
