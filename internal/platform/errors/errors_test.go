package errors

import (
	stderrs "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "bare", err: New(ErrorCodeParse, "bad line"), want: "bad line"},
		{
			name: "wrapped",
			err:  Wrap(fmt.Errorf("unexpected EOF"), ErrorCodeDecode, "open archive"),
			want: "open archive: unexpected EOF",
		},
		{
			name: "formatted",
			err:  Parsef("line %d not json", 42),
			want: "line 42 not json",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodeOfAndIsCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "decode", err: Decodef("corrupt gzip"), want: ErrorCodeDecode},
		{name: "parse", err: Parsef("bad json"), want: ErrorCodeParse},
		{name: "missing field", err: MissingFieldf("no author"), want: ErrorCodeMissingField},
		{name: "sink", err: Sinkf("csv flush"), want: ErrorCodeSink},
		{name: "foreign defaults to unknown", err: stderrs.New("plain"), want: ErrorCodeUnknown},
		{
			name: "survives stdlib wrapping",
			err:  fmt.Errorf("outer: %w", Parsef("inner")),
			want: ErrorCodeParse,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Fatalf("CodeOf = %d, want %d", got, tt.want)
			}
			if !IsCode(tt.err, tt.want) {
				t.Fatalf("IsCode(%d) = false", tt.want)
			}
		})
	}
}

func TestRootUnwrapsToCause(t *testing.T) {
	cause := stderrs.New("disk full")
	err := Wrap(Wrap(cause, ErrorCodeSink, "write row"), ErrorCodeSink, "feature sink")
	if got := Root(err); got != cause {
		t.Fatalf("Root = %v, want %v", got, cause)
	}
	if Root(nil) != nil {
		t.Fatal("Root(nil) should be nil")
	}
}

func TestWithFieldAndOpCopyOnWrite(t *testing.T) {
	base := MissingFieldf("record incomplete")

	withF := WithField(base, "created_utc")
	e, ok := As(withF)
	if !ok || e.Field() != "created_utc" {
		t.Fatalf("WithField not applied: %+v", e)
	}
	if b, _ := As(base); b.Field() != "" {
		t.Fatal("WithField mutated the original")
	}

	withOp := WithOp(base, "project")
	e, ok = As(withOp)
	if !ok || e.Op() != "project" {
		t.Fatalf("WithOp not applied: %+v", e)
	}

	// foreign errors pass through untouched
	foreign := stderrs.New("nope")
	if WithField(foreign, "x") != foreign {
		t.Fatal("WithField should return foreign errors unchanged")
	}
}

func TestWrapIf(t *testing.T) {
	if WrapIf(nil, ErrorCodeSink, "noop") != nil {
		t.Fatal("WrapIf(nil) must be nil")
	}
	err := WrapIf(stderrs.New("boom"), ErrorCodeSink, "flush")
	if !IsCode(err, ErrorCodeSink) {
		t.Fatalf("WrapIf lost the code: %v", err)
	}
}
