// Package record decodes build records emitted by the build orchestration
// service and exposes the read-only view the analysis engines consume.
//
// Every accessor tolerates missing data. Optional instants come back with an
// ok flag; malformed nested JSON reads as absent.
package record

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/sofmeright/buildlens/src/imageref"
)

// Build phases that the metrics glue distinguishes.
const (
	PhaseComplete = "Complete"
	PhaseFailed   = "Failed"
)

// Annotation keys set by the builder.
const (
	AnnotationBaseImage    = "base-image-name"
	AnnotationRepositories = "repositories"
	AnnotationTarMetadata  = "tar_metadata"
)

// ErrNoRepositories is returned when a record has no usable repositories annotation.
var ErrNoRepositories = errors.New("no repositories annotation")

// Build is one build record as emitted by the orchestration service.
type Build struct {
	Metadata Metadata `json:"metadata"`
	Status   Status   `json:"status"`
}

// Metadata is the object metadata of a build.
type Metadata struct {
	Name              string            `json:"name"`
	CreationTimestamp string            `json:"creationTimestamp,omitempty"`
	Annotations       map[string]string `json:"annotations,omitempty"`
}

// Status is the observed state of a build.
type Status struct {
	Phase               string `json:"phase,omitempty"`
	StartTimestamp      string `json:"startTimestamp,omitempty"`
	CompletionTimestamp string `json:"completionTimestamp,omitempty"`
	Duration            int64  `json:"duration,omitempty"` // nanoseconds
}

type repositories struct {
	Primary *[]string `json:"primary"`
	Unique  []string  `json:"unique,omitempty"`
}

type tarMetadata struct {
	Size *int64 `json:"size"`
}

// Name returns the unique build name.
func (b *Build) Name() string { return b.Metadata.Name }

// Phase returns the build state, e.g. "Complete" or "Failed".
func (b *Build) Phase() string { return b.Status.Phase }

// Created returns the creation instant, or the zero time when absent.
func (b *Build) Created() time.Time {
	t, _ := parseTime(b.Metadata.CreationTimestamp)
	return t
}

// Started returns the start instant.
func (b *Build) Started() (time.Time, bool) {
	return parseTime(b.Status.StartTimestamp)
}

// StartTimestamp returns the raw start timestamp text.
func (b *Build) StartTimestamp() string { return b.Status.StartTimestamp }

// Completed returns the completion instant.
func (b *Build) Completed() (time.Time, bool) {
	return parseTime(b.Status.CompletionTimestamp)
}

// Duration returns the reported run duration, zero when absent.
func (b *Build) Duration() time.Duration {
	return time.Duration(b.Status.Duration)
}

// BaseImage returns the normalized base image reference.
func (b *Build) BaseImage() (string, bool) {
	base, ok := b.Metadata.Annotations[AnnotationBaseImage]
	if !ok {
		return "", false
	}
	return imageref.StripRegistry(base), true
}

// PrimaryRepositories returns the normalized primary image references the
// build produced.
func (b *Build) PrimaryRepositories() ([]string, error) {
	raw, ok := b.Metadata.Annotations[AnnotationRepositories]
	if !ok {
		return nil, ErrNoRepositories
	}
	var repos repositories
	if err := json.Unmarshal([]byte(raw), &repos); err != nil {
		return nil, errors.Join(ErrNoRepositories, err)
	}
	if repos.Primary == nil {
		return nil, ErrNoRepositories
	}
	refs := make([]string, 0, len(*repos.Primary))
	for _, r := range *repos.Primary {
		refs = append(refs, imageref.StripRegistry(r))
	}
	return refs, nil
}

// TarSize returns the uploaded image size in bytes from the tar metadata
// annotation.
func (b *Build) TarSize() (int64, bool) {
	raw := b.Metadata.Annotations[AnnotationTarMetadata]
	if raw == "" {
		return 0, false
	}
	var md tarMetadata
	if err := json.Unmarshal([]byte(raw), &md); err != nil || md.Size == nil {
		return 0, false
	}
	return *md.Size, true
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
