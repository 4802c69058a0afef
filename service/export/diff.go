package export

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	godiff "github.com/sourcegraph/go-diff/diff"
)

// Report explains how an export changed between two passes
type Report struct {
	Diff    string `json:"diff,omitempty"`
	Added   int    `json:"added"`
	Changed int    `json:"changed"`
	Deleted int    `json:"deleted"`
}

// Diff compares previous and current CSV exports line by line.
func Diff(previous, current []byte) (*Report, error) {
	unified := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(previous)),
		B:        difflib.SplitLines(string(current)),
		FromFile: "previous.csv",
		ToFile:   "current.csv",
		Context:  1,
	}
	text, err := difflib.GetUnifiedDiffString(unified)
	if err != nil {
		return nil, fmt.Errorf("failed to diff exports: %w", err)
	}
	if text == "" {
		return &Report{}, nil
	}
	fileDiff, err := godiff.ParseFileDiff([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse export diff: %w", err)
	}
	stat := fileDiff.Stat()
	return &Report{
		Diff:    text,
		Added:   int(stat.Added),
		Changed: int(stat.Changed),
		Deleted: int(stat.Deleted),
	}, nil
}
