// ============================================================================
// noloop - Installation Diagnostics
// ============================================================================
//
// Package:     health
// Description: Named diagnostics run concurrently against a noloop
//              installation and aggregated into one report
// Author:      Mike Stoffels
// Created:     2025-03-09
// License:     MIT
// ============================================================================

// Package health runs named diagnostics against a noloop installation and
// aggregates them into a report. The check command registers one check per
// concern (configuration, data directory, prelude, journal).
package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Status represents the outcome of a check
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
	StatusUnknown   Status = "unknown"
)

// rank orders statuses from best to worst
func (s Status) rank() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	case StatusUnknown:
		return 2
	default:
		return 3
	}
}

// CheckResult represents the result of a single check
type CheckResult struct {
	Name      string                 `yaml:"name"`
	Status    Status                 `yaml:"status"`
	Message   string                 `yaml:"message,omitempty"`
	Duration  time.Duration          `yaml:"duration"`
	Timestamp time.Time              `yaml:"timestamp"`
	Details   map[string]interface{} `yaml:"details,omitempty"`
}

// Checker is an interface for checks
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// CheckFunc is a function type that implements Checker
type CheckFunc func(ctx context.Context) CheckResult

// Check implements the Checker interface
func (f CheckFunc) Check(ctx context.Context) CheckResult {
	return f(ctx)
}

// Name returns a default name
func (f CheckFunc) Name() string {
	return "unknown"
}

// NamedCheckFunc wraps a check function with a name
type NamedCheckFunc struct {
	name string
	fn   func(ctx context.Context) CheckResult
}

// NewChecker creates a named checker from a function
func NewChecker(name string, fn func(ctx context.Context) CheckResult) Checker {
	return &NamedCheckFunc{name: name, fn: fn}
}

// Name returns the checker name
func (c *NamedCheckFunc) Name() string {
	return c.name
}

// Check runs the check
func (c *NamedCheckFunc) Check(ctx context.Context) CheckResult {
	return c.fn(ctx)
}

// FromError turns an error-returning probe into a checker. A nil error is
// healthy, anything else is reported with the given failure status.
func FromError(name string, failure Status, probe func(ctx context.Context) (string, error)) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		msg, err := probe(ctx)
		if err != nil {
			return CheckResult{Name: name, Status: failure, Message: err.Error()}
		}
		return CheckResult{Name: name, Status: StatusHealthy, Message: msg}
	})
}

// Registry manages multiple checkers
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	service  string
	version  string
}

// NewRegistry creates a new check registry
func NewRegistry(service, version string) *Registry {
	return &Registry{
		checkers: make(map[string]Checker),
		service:  service,
		version:  version,
	}
}

// Register adds a checker to the registry. A checker with the same name
// replaces the earlier one.
func (r *Registry) Register(checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[checker.Name()] = checker
}

// RegisterFunc adds a check function to the registry
func (r *Registry) RegisterFunc(name string, fn func(ctx context.Context) CheckResult) {
	r.Register(NewChecker(name, fn))
}

// Unregister removes a checker from the registry
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.checkers, name)
}

// Len returns the number of registered checkers
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.checkers)
}

// Check runs all checks concurrently and returns the aggregated report.
// Results are sorted by name.
func (r *Registry) Check(ctx context.Context) *Report {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start := time.Now()
	report := &Report{
		Service:   r.service,
		Version:   r.version,
		Timestamp: start,
		Checks:    make([]CheckResult, 0, len(r.checkers)),
	}

	var wg sync.WaitGroup
	results := make(chan CheckResult, len(r.checkers))

	for _, checker := range r.checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			began := time.Now()
			result := c.Check(ctx)
			result.Duration = time.Since(began)
			result.Timestamp = time.Now()
			if result.Name == "" {
				result.Name = c.Name()
			}
			if result.Status == "" {
				result.Status = StatusUnknown
			}
			results <- result
		}(checker)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	overall := StatusHealthy
	for result := range results {
		report.Checks = append(report.Checks, result)
		if result.Status.rank() > overall.rank() {
			overall = result.Status
		}
	}

	sort.Slice(report.Checks, func(i, j int) bool {
		return report.Checks[i].Name < report.Checks[j].Name
	})

	report.Status = overall
	report.Duration = time.Since(start)
	return report
}

// CheckWithTimeout runs all checks with a timeout
func (r *Registry) CheckWithTimeout(timeout time.Duration) *Report {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return r.Check(ctx)
}

// Report represents the overall result
type Report struct {
	Service   string        `yaml:"service"`
	Version   string        `yaml:"version"`
	Status    Status        `yaml:"status"`
	Duration  time.Duration `yaml:"duration"`
	Timestamp time.Time     `yaml:"timestamp"`
	Checks    []CheckResult `yaml:"checks"`
}

// Healthy reports whether no check failed. Degraded checks count as healthy.
func (r *Report) Healthy() bool {
	return r.Status == StatusHealthy || r.Status == StatusDegraded
}

// String returns a one-line summary of the report
func (r *Report) String() string {
	return fmt.Sprintf("%s %s: %s (%d checks in %v)",
		r.Service, r.Version, r.Status, len(r.Checks), r.Duration)
}
