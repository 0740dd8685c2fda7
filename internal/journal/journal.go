package journal

import (
	"context"
	"time"

	nlerror "github.com/msto63/noloop/foundation/core/error"
	"github.com/msto63/noloop/foundation/lang"
)

// Origin tells where a run came from
type Origin string

const (
	OriginRun  Origin = "run"
	OriginREPL Origin = "repl"
)

// Entry is one recorded program run
type Entry struct {
	ID           string        `json:"id" yaml:"id"`
	Timestamp    time.Time     `json:"timestamp" yaml:"timestamp"`
	Origin       Origin        `json:"origin" yaml:"origin"`
	Name         string        `json:"name" yaml:"name"`
	Source       string        `json:"source" yaml:"source"`
	Result       string        `json:"result,omitempty" yaml:"result,omitempty"`
	ErrorCode    string        `json:"error_code,omitempty" yaml:"error_code,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
}

// Failed reports whether the run ended with an error
func (e *Entry) Failed() bool {
	return e.ErrorCode != ""
}

// Filter defines criteria for listing entries
type Filter struct {
	Origin     Origin
	Name       string
	OnlyFailed bool
	Since      time.Time
	Limit      int
	Offset     int
}

// Stats summarizes the journal
type Stats struct {
	Total           int64            `json:"total" yaml:"total"`
	Failed          int64            `json:"failed" yaml:"failed"`
	ByOrigin        map[string]int64 `json:"by_origin" yaml:"by_origin"`
	ByErrorCode     map[string]int64 `json:"by_error_code" yaml:"by_error_code"`
	AverageDuration time.Duration    `json:"average_duration" yaml:"average_duration"`
	LastRun         time.Time        `json:"last_run,omitempty" yaml:"last_run,omitempty"`
}

// Store defines the interface for run persistence
type Store interface {
	Record(ctx context.Context, entry *Entry) error
	Recent(ctx context.Context, filter Filter) ([]*Entry, error)
	Stats(ctx context.Context) (*Stats, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}

// FromRun builds an entry from the outcome of an engine run. res may be nil
// when err is set.
func FromRun(origin Origin, name, source string, res *lang.Result, err error, elapsed time.Duration) *Entry {
	entry := &Entry{
		Origin:   origin,
		Name:     name,
		Source:   source,
		Duration: elapsed,
	}
	if res != nil {
		entry.ID = res.RunID
		entry.Result = res.Value.Repr()
		entry.Duration = res.Duration
	}
	if err != nil {
		entry.ErrorCode = nlerror.GetCode(err).String()
		entry.ErrorMessage = err.Error()
	}
	return entry
}

func (f Filter) matches(e *Entry) bool {
	if f.Origin != "" && e.Origin != f.Origin {
		return false
	}
	if f.Name != "" && e.Name != f.Name {
		return false
	}
	if f.OnlyFailed && !e.Failed() {
		return false
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	return true
}

func dbError(err error, operation, message string) error {
	return nlerror.Wrap(err, message).
		WithCode(nlerror.CodeDatabaseError).
		WithOperation(operation)
}
