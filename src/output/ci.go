package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// CI environment detection.

func IsCI() bool {
	return os.Getenv("CI") == "true"
}

func IsGitLabCI() bool {
	return os.Getenv("GITLAB_CI") == "true"
}

// GitLab collapsible section helpers. Outside GitLab CI they write nothing.

func SectionStart(w io.Writer, id, name string) {
	sectionMarker(w, "section_start", id, name, false)
}

// SectionStartCollapsed starts a section that is collapsed by default.
func SectionStartCollapsed(w io.Writer, id, name string) {
	sectionMarker(w, "section_start", id, name, true)
}

func SectionEnd(w io.Writer, id string) {
	sectionMarker(w, "section_end", id, "", false)
}

func sectionMarker(w io.Writer, kind, id, name string, collapsed bool) {
	if !IsGitLabCI() {
		return
	}
	opts := ""
	if collapsed {
		opts = "[collapsed=true]"
	}
	fmt.Fprintf(w, "\033[0K%s:%d:%s%s\r\033[0K%s\n", kind, time.Now().Unix(), id, opts, name)
}

// CIHeader prints a compact pipeline context line at the start of a CI run.
func CIHeader(w io.Writer) {
	if !IsCI() {
		return
	}
	var parts []string
	if sha := os.Getenv("CI_COMMIT_SHORT_SHA"); sha != "" {
		parts = append(parts, "sha="+sha)
	} else if sha := os.Getenv("CI_COMMIT_SHA"); len(sha) >= 8 {
		parts = append(parts, "sha="+sha[:8])
	}
	if pipe := os.Getenv("CI_PIPELINE_ID"); pipe != "" {
		parts = append(parts, "pipeline="+pipe)
	}
	if job := os.Getenv("CI_JOB_NAME"); job != "" {
		parts = append(parts, "job="+job)
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "  ci: %s\n", strings.Join(parts, "  "))
	}
}
