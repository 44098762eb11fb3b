// Package snag provides error handling for scribble's capture and host-layer
// operations.
//
// The animation core itself has no fallible operations, but everything around
// it (frame capture, gallery writing, terminal plumbing) can snag. The
// package distinguishes issues a screensaver should shrug off (a dropped
// frame) from ones that must stop the show (an unwritable output directory).
package snag

import (
	"fmt"
	"strings"
	"time"
)

// Snag represents an error during a scribble session with rich context.
//
// Snags categorize the failures that can occur around the animation,
// providing structured context for debugging without necessarily stopping
// the scene.
//
// Error types:
//   - "capture": frame rasterization or PNG encoding failures
//   - "gallery": contact-sheet generation failures
//   - "host": windowing or terminal front-end issues
//   - "teardown": loops that failed to join within the grace period
//
// Example usage:
//
//	err := snag.New("capture", "failed to encode frame",
//	    snag.Context{"frame": 17, "path": path})
//
//	if err.CanRecover() {
//	    // keep animating, the next frame may land
//	}
type Snag struct {
	Type      string    // Error category for systematic handling
	Message   string    // Human-readable description
	Context   Context   // Additional debugging information
	Timestamp time.Time // When the error occurred
	Attempt   int       // Which attempt/retry this was
	Severity  Severity  // How serious this error is
}

// Context provides structured debugging information for snags.
type Context map[string]interface{}

// Severity indicates how serious a snag is and how it should be handled.
type Severity int

const (
	// Blip indicates a minor issue that doesn't affect the session.
	// Examples: a single frame failed to encode, a coalesced redraw.
	Blip Severity = iota

	// Error indicates a significant issue that may degrade the session.
	// Examples: the gallery could not be written, a capture directory
	// vanished mid-run.
	Error

	// Freeze indicates a serious issue that invalidates the session.
	// Examples: the host layer died, teardown failed to join the loops.
	Freeze
)

func (s Severity) String() string {
	switch s {
	case Blip:
		return "blip"
	case Error:
		return "error"
	case Freeze:
		return "freeze"
	default:
		return "unknown"
	}
}

// New creates a new snag with the current timestamp and Error severity.
func New(errorType, message string, context Context) *Snag {
	return &Snag{
		Type:      errorType,
		Message:   message,
		Context:   context,
		Timestamp: time.Now(),
		Severity:  Error,
	}
}

// NewBlip creates a new snag with Blip severity.
func NewBlip(errorType, message string, context Context) *Snag {
	s := New(errorType, message, context)
	s.Severity = Blip
	return s
}

// NewFreeze creates a new snag with Freeze severity.
func NewFreeze(errorType, message string, context Context) *Snag {
	s := New(errorType, message, context)
	s.Severity = Freeze
	return s
}

// Wrap converts an ordinary error into a snag, preserving it in context.
func Wrap(errorType string, err error, context Context) *Snag {
	if context == nil {
		context = make(Context)
	}
	context["cause"] = err
	return New(errorType, err.Error(), context)
}

// WithAttempt sets the attempt number for this snag.
func (s *Snag) WithAttempt(attemptNumber int) *Snag {
	s.Attempt = attemptNumber
	return s
}

// WithSeverity sets the severity level for this snag.
func (s *Snag) WithSeverity(severity Severity) *Snag {
	s.Severity = severity
	return s
}

// Error implements the error interface.
func (s *Snag) Error() string {
	return fmt.Sprintf("[%s:%s] %s", s.Type, s.Severity, s.Message)
}

// Unwrap exposes a wrapped cause to errors.Is and errors.As.
func (s *Snag) Unwrap() error {
	if s.Context == nil {
		return nil
	}
	if cause, ok := s.Context["cause"].(error); ok {
		return cause
	}
	return nil
}

// CanRecover returns true if the session can continue despite this snag.
func (s *Snag) CanRecover() bool {
	return s.Severity == Blip
}

// IsFreeze returns true if this snag should immediately stop the session.
func (s *Snag) IsFreeze() bool {
	return s.Severity == Freeze
}

// GetContext returns a specific context value if it exists.
func (s *Snag) GetContext(key string) (interface{}, bool) {
	if s.Context == nil {
		return nil, false
	}
	val, exists := s.Context[key]
	return val, exists
}

// DetailedString returns a comprehensive description with context.
func (s *Snag) DetailedString() string {
	var details strings.Builder

	details.WriteString(fmt.Sprintf("[%s:%s] %s", s.Type, s.Severity, s.Message))
	details.WriteString(fmt.Sprintf("\n  Time: %s", s.Timestamp.Format("15:04:05.000")))

	if s.Attempt > 0 {
		details.WriteString(fmt.Sprintf("\n  Attempt: %d", s.Attempt))
	}

	if len(s.Context) > 0 {
		details.WriteString("\n  Context:")
		for key, value := range s.Context {
			details.WriteString(fmt.Sprintf("\n    %s: %v", key, value))
		}
	}

	return details.String()
}

// Handler manages snag collection during a session.
//
// The handler provides component-specific error management: capture blips
// accumulate quietly while freezes stop the show, according to its policy.
type Handler struct {
	component string  // Component name (e.g., "filmstrip", "terminal")
	snags     []*Snag // Collected errors in chronological order
	blips     []*Snag // Collected minor issues in chronological order
	policy    *Policy // How to handle different error types
}

// Policy defines how types and severities of snags should be handled.
type Policy struct {
	// StopOnFreeze determines if the session should stop on freeze snags
	StopOnFreeze bool

	// MaxBlips limits accumulated blips before treating them as a snag
	MaxBlips int

	// RecoverableTypes lists error types considered recoverable
	RecoverableTypes []string

	// RetryPolicy defines retry behavior per error type
	RetryPolicy map[string]RetryConfig
}

// RetryConfig defines retry behavior for a specific error type.
type RetryConfig struct {
	MaxRetries  int           // Maximum retry attempts
	Backoff     time.Duration // Delay between retries
	Exponential bool          // Whether to use exponential backoff
}

// DefaultPolicy returns a sensible default policy: frame capture may blip
// indefinitely-ish, the host layer gets one retry, freezes end the session.
func DefaultPolicy() *Policy {
	return &Policy{
		StopOnFreeze:     true,
		MaxBlips:         25,
		RecoverableTypes: []string{"capture", "gallery"},
		RetryPolicy: map[string]RetryConfig{
			"capture": {MaxRetries: 3, Backoff: 50 * time.Millisecond, Exponential: false},
			"gallery": {MaxRetries: 2, Backoff: 100 * time.Millisecond, Exponential: true},
			"host":    {MaxRetries: 1, Backoff: 25 * time.Millisecond, Exponential: false},
		},
	}
}

// NewHandler creates a snag handler for a specific component.
func NewHandler(component string, policy *Policy) *Handler {
	if policy == nil {
		policy = DefaultPolicy()
	}

	return &Handler{
		component: component,
		snags:     make([]*Snag, 0),
		blips:     make([]*Snag, 0),
		policy:    policy,
	}
}

// Record adds a snag to the handler's collection.
func (h *Handler) Record(s *Snag) {
	if s.Severity == Blip {
		h.blips = append(h.blips, s)
	} else {
		h.snags = append(h.snags, s)
	}
}

// ShouldContinue determines if the session should continue.
func (h *Handler) ShouldContinue() bool {
	if h.policy.StopOnFreeze {
		for _, s := range h.snags {
			if s.IsFreeze() {
				return false
			}
		}
	}

	if h.policy.MaxBlips > 0 && len(h.blips) > h.policy.MaxBlips {
		return false
	}

	return true
}

// HasSnags returns true if any errors (non-blips) have been recorded.
func (h *Handler) HasSnags() bool {
	return len(h.snags) > 0
}

// HasBlips returns true if any blips have been recorded.
func (h *Handler) HasBlips() bool {
	return len(h.blips) > 0
}

// GetSnags returns all recorded errors.
func (h *Handler) GetSnags() []*Snag {
	return h.snags
}

// GetBlips returns all recorded blips.
func (h *Handler) GetBlips() []*Snag {
	return h.blips
}

// GetRetryConfig returns the retry configuration for an error type.
func (h *Handler) GetRetryConfig(errorType string) (RetryConfig, bool) {
	config, exists := h.policy.RetryPolicy[errorType]
	return config, exists
}

// CanRecover returns true if the given error type is considered recoverable.
func (h *Handler) CanRecover(errorType string) bool {
	for _, recoverable := range h.policy.RecoverableTypes {
		if recoverable == errorType {
			return true
		}
	}
	return false
}

// Summary provides a concise overview of all snags and blips.
func (h *Handler) Summary() string {
	if len(h.snags) == 0 && len(h.blips) == 0 {
		return fmt.Sprintf("[%s] No issues during session", h.component)
	}

	return fmt.Sprintf("[%s] %d snags, %d blips",
		h.component, len(h.snags), len(h.blips))
}

// DetailedReport provides a comprehensive report of all issues.
func (h *Handler) DetailedReport() string {
	var report strings.Builder

	report.WriteString(fmt.Sprintf("=== %s Component Report ===\n", h.component))
	report.WriteString(h.Summary() + "\n")

	if len(h.snags) > 0 {
		report.WriteString("\nSnags:\n")
		for i, s := range h.snags {
			report.WriteString(fmt.Sprintf("%d. %s\n", i+1, s.DetailedString()))
		}
	}

	if len(h.blips) > 0 {
		report.WriteString("\nBlips:\n")
		for i, b := range h.blips {
			report.WriteString(fmt.Sprintf("%d. %s\n", i+1, b.DetailedString()))
		}
	}

	return report.String()
}
