package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseHost,
				Kind:   KindInvalidHandle,
				Op:     "slot__get_parent",
				Handle: 0x2a,
				Type:   "slot",
				Detail: "destroyed",
			},
			contains: []string{"[host]", "invalid_handle", "slot__get_parent", "0x2a", "slot", "destroyed"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[decode]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseBoundary,
				Kind:   KindAllocation,
				Detail: "guest malloc returned 0",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[boundary]", "allocation", "guest malloc", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(PhaseRuntime, KindInstantiation, cause, "instantiate")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestError_Is(t *testing.T) {
	err := Overflow(PhaseConvert, "2**64", "uint64")
	target := &Error{Phase: PhaseConvert, Kind: KindOverflow}

	if !errors.Is(err, target) {
		t.Error("errors.Is should match on phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseDecode, Kind: KindOverflow}) {
		t.Error("errors.Is should not match a different phase")
	}

	wrapped := fmt.Errorf("call failed: %w", err)
	if !errors.Is(wrapped, target) {
		t.Error("errors.Is should see through fmt wrapping")
	}
}

func TestBuilder(t *testing.T) {
	err := New(PhaseHost, KindFailedPrecondition).
		Op("slot__get_component").
		Handle(7).
		Type("Example.Component").
		Detail("no such type: %s", "Example.Component").
		Value(3).
		Build()

	if err.Op != "slot__get_component" || err.Handle != 7 {
		t.Fatalf("unexpected builder result: %+v", err)
	}
	if err.Detail != "no such type: Example.Component" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Value != 3 {
		t.Errorf("Value = %v", err.Value)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, CodeSuccess},
		{"null argument", NullArgument("op", "name"), CodeNullArgument},
		{"invalid handle", InvalidHandle("op", 9, "slot"), CodeInvalidRefID},
		{"precondition", FailedPrecondition("op", "nope"), CodeFailedPrecondition},
		{"wrapped invalid handle", fmt.Errorf("x: %w", InvalidHandle("op", 1, "slot")), CodeInvalidRefID},
		{"foreign error", errors.New("boom"), CodeFailedPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCode_String(t *testing.T) {
	tests := map[Code]string{
		CodeSuccess:            "success",
		CodeNullArgument:       "null argument",
		CodeInvalidRefID:       "invalid reference handle",
		CodeFailedPrecondition: "failed precondition",
		Code(-42):              "unknown error code -42",
	}
	for code, want := range tests {
		if got := code.String(); got != want {
			t.Errorf("Code(%d).String() = %q, want %q", int32(code), got, want)
		}
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(fmt.Errorf("w: %w", Unsupported(PhaseEncode, "x"))); got != KindUnsupported {
		t.Errorf("KindOf = %q", got)
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}
}
