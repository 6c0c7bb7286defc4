package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrUnauthorized,
			b:      ErrUnauthorized,
			wantIs: true,
		},
		"two different coded errors": {
			a:      ErrUnauthorized,
			b:      ErrAlreadyVoted,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrInsufficientVested,
			b:      Wrap(ErrInsufficientVested, "gone"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrProposalNotOpen,
			b:      Wrap(ErrProposalExpired, "too late"),
			wantIs: false,
		},
		"double wrapped": {
			a:      ErrWrongExecutionStatus,
			b:      Wrap(Wrap(ErrWrongExecutionStatus, "inner"), "outer"),
			wantIs: true,
		},
		"field error": {
			a:      ErrInvalidConfiguration,
			b:      Field("Tranche", ErrInvalidConfiguration, "nothing to vest"),
			wantIs: true,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is any error nil": {
			a:      nil,
			b:      (*wrappedError)(nil),
			wantIs: true,
		},
		"nil is not not-nil": {
			a:      nil,
			b:      ErrUnauthorized,
			wantIs: false,
		},
		"multi error of the first kind": {
			a:      ErrEmpty,
			b:      Append(ErrEmpty, ErrAmount),
			wantIs: true,
		},
		"multi error of the second kind": {
			a:      ErrAmount,
			b:      Append(ErrEmpty, ErrAmount),
			wantIs: false,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result - got:%v want: %v", got, tc.wantIs)
			}
		})
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	Register(ErrUnauthorized.code, "again")
}

func TestWrapAttachesStackOnce(t *testing.T) {
	err := Wrap(Wrap(ErrState, "first"), "second")
	if got, want := err.Error(), "second: first: invalid state"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	full := fmt.Sprintf("%+v", err)
	if !strings.Contains(full, "errors_test.go") {
		t.Fatalf("stack trace not present: %s", full)
	}
	if Wrap(nil, "nothing") != nil {
		t.Fatal("wrapping nil must return nil")
	}
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	if err := fn(); !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
}

func TestFieldErrors(t *testing.T) {
	err := Append(
		Field("Admins", ErrEmpty, "required"),
		Field("Ops", ErrEmpty, "required"),
		Field("Admins", ErrDuplicate, "twice"),
	)
	if n := len(FieldErrors(err, "Admins")); n != 2 {
		t.Fatalf("want 2 admin errors, got %d", n)
	}
	if n := len(FieldErrors(err, "Tranche")); n != 0 {
		t.Fatalf("want no tranche errors, got %d", n)
	}
	if FieldErrors(nil, "Admins") != nil {
		t.Fatal("nil error has no fields")
	}
}

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"nil": {
			err:      nil,
			wantCode: 0,
			wantLog:  "",
		},
		"registered error": {
			err:      ErrAlreadyVoted,
			wantCode: ErrAlreadyVoted.code,
			wantLog:  "already voted on this proposal",
		},
		"wrapped registered error": {
			err:      Wrap(ErrInsufficientVested, "requested 5"),
			wantCode: ErrInsufficientVested.code,
			wantLog:  "requested 5: insufficient vested balance",
		},
		"stdlib error is redacted": {
			err:      stderrors.New("disk on fire"),
			wantCode: 1,
			wantLog:  "internal error",
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want code %d, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want log %q, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(ErrPanic.New("secret"), false); ErrPanic.Is(err) {
		t.Fatal("panic must be redacted")
	}
	if err := Redact(ErrUnauthorized, false); !ErrUnauthorized.Is(err) {
		t.Fatal("coded error must be preserved")
	}
	if err := Redact(ErrPanic, true); !ErrPanic.Is(err) {
		t.Fatal("debug mode must not redact")
	}
}
