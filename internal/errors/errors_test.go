package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(FormatError, "identifier has no range part")
	got := err.Error()
	if !strings.Contains(got, "FORMAT_ERROR") {
		t.Errorf("Error() = %q, want it to contain the code", got)
	}
	if !strings.Contains(got, "identifier has no range part") {
		t.Errorf("Error() = %q, want it to contain the message", got)
	}
}

func TestErrorWithCause(t *testing.T) {
	cause := fmt.Errorf("strconv: invalid syntax")
	err := Wrap(FormatError, "bad range bounds", cause)

	if !strings.Contains(err.Error(), "strconv") {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"plan error", New(FeedPairConflict, "pair 8 claimed"), FeedPairConflict},
		{"wrapped plan error", fmt.Errorf("toggle: %w", New(NoMatchingFeedCircuit, "no feed")), NoMatchingFeedCircuit},
		{"foreign error", fmt.Errorf("disk full"), InternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(OverlapError, "ranges intersect"))

	if !HasCode(err, OverlapError) {
		t.Error("expected HasCode to match through wrapping")
	}
	if HasCode(err, FormatError) {
		t.Error("HasCode matched the wrong code")
	}
	if HasCode(fmt.Errorf("plain"), OverlapError) {
		t.Error("HasCode matched a foreign error")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(FeedPairConflict, "conflict").WithDetails(map[string]int{"pair": 8})
	if err.Details == nil {
		t.Fatal("expected details to be attached")
	}
}
