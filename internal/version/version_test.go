package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	oldCommit, oldDate := Commit, Date
	defer func() { Commit, Date = oldCommit, oldDate }()

	Commit, Date = "unknown", "unknown"
	if got := String(); !strings.HasPrefix(got, "colourbalance "+Version+" (") {
		t.Errorf("String() = %q", got)
	}

	Commit, Date = "0123456789abcdef", "2026-01-02T03:04:05Z"
	got := String()
	if !strings.Contains(got, "commit: 01234567,") {
		t.Errorf("String() = %q, want shortened commit", got)
	}
	if !strings.Contains(got, Date) {
		t.Errorf("String() = %q, want date %s", got, Date)
	}
}
