// Package report defines validation findings and runs, the reporting sink,
// and output writers for the CLI and the export command.
package report

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Level classifies a finding. Warnings and infos never alter control flow;
// a fatal finding corresponds to the error that aborted the run.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelFatal   Level = "fatal"
)

// Run statuses.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// Finding is one reported condition: where it happened and what was observed.
type Finding struct {
	Level   Level     `json:"level"`
	Folder  string    `json:"folder,omitempty"`
	File    string    `json:"file,omitempty"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Run is one validation run: a single pass/fail outcome plus everything that
// was reported before the outcome was reached.
type Run struct {
	ID         string    `json:"id"`
	Root       string    `json:"root"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Status     string    `json:"status"`
	// Message is the fatal error chain when Status is failed.
	Message  string    `json:"message,omitempty"`
	Findings []Finding `json:"findings,omitempty"`
}

// Failed reports whether the run ended in a fatal condition.
func (r *Run) Failed() bool {
	return r.Status == StatusFailed
}

// Reporter receives informational and warning messages during validation.
// Both are side-effecting only and never alter control flow.
type Reporter interface {
	Info(folder, file, msg string)
	Warn(folder, file, msg string)
}

// Recorder is a Reporter that logs through zap and accumulates findings for
// the run record. Safe for use from watch-mode callbacks.
type Recorder struct {
	logger *zap.Logger

	mu       sync.Mutex
	findings []Finding
}

// NewRecorder creates a recorder. logger may be nil for silent recording.
func NewRecorder(logger *zap.Logger) *Recorder {
	return &Recorder{logger: logger}
}

// Info records an informational finding.
func (r *Recorder) Info(folder, file, msg string) {
	if r.logger != nil {
		r.logger.Info(msg, zap.String("folder", folder), zap.String("file", file))
	}
	r.append(Finding{Level: LevelInfo, Folder: folder, File: file, Message: msg, Time: time.Now()})
}

// Warn records a warning finding.
func (r *Recorder) Warn(folder, file, msg string) {
	if r.logger != nil {
		r.logger.Warn(msg, zap.String("folder", folder), zap.String("file", file))
	}
	r.append(Finding{Level: LevelWarning, Folder: folder, File: file, Message: msg, Time: time.Now()})
}

// Fatal records the condition that aborted the run.
func (r *Recorder) Fatal(msg string) {
	if r.logger != nil {
		r.logger.Error(msg)
	}
	r.append(Finding{Level: LevelFatal, Message: msg, Time: time.Now()})
}

func (r *Recorder) append(f Finding) {
	r.mu.Lock()
	r.findings = append(r.findings, f)
	r.mu.Unlock()
}

// Findings returns a copy of the accumulated findings.
func (r *Recorder) Findings() []Finding {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Finding(nil), r.findings...)
}
