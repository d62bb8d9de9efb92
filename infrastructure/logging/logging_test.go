package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNew_AttachesRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false, "run-123")

	logger.Info("listing files", "corpus", "c1")

	out := buf.String()
	if !strings.Contains(out, "run_id=run-123") {
		t.Errorf("expected run_id in output, got %q", out)
	}
	if !strings.Contains(out, "corpus=c1") {
		t.Errorf("expected corpus attr in output, got %q", out)
	}
}

func TestNew_Verbose(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{name: "info level hides debug", verbose: false, wantDebug: false},
		{name: "verbose shows debug", verbose: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(&buf, tt.verbose, "r").Debug("page fetched")

			if got := strings.Contains(buf.String(), "page fetched"); got != tt.wantDebug {
				t.Errorf("debug visible = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false, "r")

	ctx := NewContext(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Error("FromContext did not return the stored logger")
	}

	// Missing logger must be safe to use.
	FromContext(context.Background()).Info("discarded")
}

func TestNewRunID_Unique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == "" || a == b {
		t.Errorf("NewRunID() returned %q and %q", a, b)
	}
}
