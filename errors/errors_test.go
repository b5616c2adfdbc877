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
				Phase:  PhaseEncode,
				Kind:   KindAllocation,
				Path:   []string{"result", "exact-words", "0"},
				Record: "suggestion",
				Detail: "heap exhausted",
			},
			contains: []string{"[encode]", "allocation", "result.exact-words.0", "record suggestion", "heap exhausted"},
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
				Phase:  PhaseRuntime,
				Kind:   KindEngine,
				Detail: "transliterate",
				Cause:  errors.New("dictionary locked"),
			},
			contains: []string{"[runtime]", "engine", "transliterate", "caused by", "dictionary locked"},
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
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach cause")
	}
}

func TestError_Is(t *testing.T) {
	err := Released(PhaseRelease, "suggestion", 3)

	if !errors.Is(err, &Error{Phase: PhaseRelease, Kind: KindReleased}) {
		t.Error("Is should match same phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseDecode, Kind: KindReleased}) {
		t.Error("Is should not match different phase")
	}
	if errors.Is(err, &Error{Phase: PhaseRelease, Kind: KindNotFound}) {
		t.Error("Is should not match different kind")
	}

	wrapped := fmt.Errorf("destroy: %w", err)
	var target *Error
	if !errors.As(wrapped, &target) || target.Value != 3 {
		t.Error("errors.As through fmt wrap")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseEncode, KindAllocation).
		Path("result", "word").
		Record("suggestion").
		Value(42).
		Cause(cause).
		Detail("need %d bytes", 16).
		Build()

	if err.Phase != PhaseEncode || err.Kind != KindAllocation {
		t.Errorf("Phase/Kind = %v/%v", err.Phase, err.Kind)
	}
	if len(err.Path) != 2 || err.Path[1] != "word" {
		t.Errorf("Path = %v", err.Path)
	}
	if err.Record != "suggestion" || err.Value != 42 {
		t.Errorf("Record/Value = %v/%v", err.Record, err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v", err.Cause)
	}
	if err.Detail != "need 16 bytes" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
		want string
	}{
		{"AllocationFailed", AllocationFailed(PhaseEncode, 1024, 8), KindAllocation, "1024"},
		{"OutOfBounds", OutOfBounds(PhaseDecode, []string{"slots"}, 10, 5), KindOutOfBounds, "length 5"},
		{"NilPointer", NilPointer(PhaseEncode, []string{"word"}, "suggestion"), KindNilPointer, "nil pointer"},
		{"Released", Released(PhaseRelease, "symbol", 9), KindReleased, "already released"},
		{"Borrowed", Borrowed("symbol", 9, 2), KindBorrowed, "2 outstanding"},
		{"Unsupported", Unsupported(PhaseRuntime, "reverse transliteration"), KindUnsupported, "reverse"},
		{"InvalidData", InvalidData(PhaseDecode, nil, "bad header"), KindInvalidData, "bad header"},
		{"NotInitialized", NotInitialized(PhaseRuntime, "session"), KindNotInitialized, "session not initialized"},
		{"NotFound", NotFound(PhaseRuntime, "session", 4), KindNotFound, "session 4 not found"},
		{"InvalidInput", InvalidInput(PhaseRuntime, "empty word"), KindInvalidInput, "empty word"},
		{"Canceled", Canceled(7, nil), KindCanceled, "operation 7"},
		{"Engine", Engine("learn", errors.New("x")), KindEngine, "learn"},
		{"Load", Load("fixture", errors.New("x")), KindInvalidData, "fixture"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Error(), tt.want) {
				t.Errorf("Error() = %q, should contain %q", tt.err.Error(), tt.want)
			}
		})
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Status
	}{
		{"nil", nil, StatusSuccess},
		{"released", Released(PhaseRelease, "suggestion", 1), StatusMisuse},
		{"not found", NotFound(PhaseRuntime, "handle", 1), StatusMisuse},
		{"invalid input", InvalidInput(PhaseRuntime, "x"), StatusMisuse},
		{"borrowed", Borrowed("symbol", 1, 1), StatusMisuse},
		{"engine", Engine("learn", errors.New("x")), StatusError},
		{"allocation", AllocationFailed(PhaseEncode, 1, 1), StatusError},
		{"canceled", Canceled(1, nil), StatusError},
		{"plain", errors.New("plain"), StatusError},
		{"wrapped misuse", fmt.Errorf("x: %w", Released(PhaseRelease, "s", 1)), StatusMisuse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.err); got != tt.want {
				t.Errorf("StatusOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus_Err(t *testing.T) {
	if StatusSuccess.Err("x") != nil {
		t.Fatal("success should map to nil")
	}
	for _, s := range []Status{StatusMisuse, StatusError} {
		err := s.Err("detail")
		if err == nil {
			t.Fatalf("%v should map to an error", s)
		}
		if StatusOf(err) != s {
			t.Errorf("StatusOf(%v.Err()) = %v", s, StatusOf(err))
		}
	}
	if StatusSuccess.String() != "success" || Status(9).String() != "unknown" {
		t.Error("Status.String")
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(nil) != "" || KindOf(errors.New("plain")) != "" {
		t.Error("non-structured errors should have no kind")
	}
	if KindOf(fmt.Errorf("op: %w", Canceled(3, nil))) != KindCanceled {
		t.Error("KindOf should unwrap")
	}
}
