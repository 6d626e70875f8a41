package buildlog

import (
	"strings"
	"sync"

	"github.com/zricethezav/gitleaks/v8/detect"
)

const redacted = "REDACTED"

// Redactor scrubs credentials out of text extracted from build logs.
type Redactor struct {
	mu       sync.Mutex
	detector *detect.Detector
}

// NewRedactor loads the default secret detection rules.
func NewRedactor() (*Redactor, error) {
	d, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, err
	}
	return &Redactor{detector: d}, nil
}

// Redact returns s with every detected secret replaced, and the IDs of the
// rules that fired.
func (r *Redactor) Redact(s string) (string, []string) {
	if s == "" {
		return s, nil
	}

	r.mu.Lock()
	hits := r.detector.DetectString(s)
	r.mu.Unlock()

	var rules []string
	for _, h := range hits {
		if h.Secret == "" {
			continue
		}
		s = strings.ReplaceAll(s, h.Secret, redacted)
		rules = append(rules, h.RuleID)
	}
	return s, rules
}
