package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestConversionErrorMessage(t *testing.T) {
	err := WithFormat("JSON", NewError(KindUnsupportedShape, "JSON must be an array of objects"))
	want := "Error converting JSON to SQLite: JSON must be an array of objects"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}

	inner := NewError(KindMalformedInput, "bad row")
	if inner.Error() != "bad row" {
		t.Errorf("unlabelled error = %q", inner.Error())
	}
}

func TestConversionErrorKinds(t *testing.T) {
	cause := errors.New("disk I/O error")
	storeErr := WithFormat("CSV", WrapError(KindStoreUnavailable, cause))

	if !errors.Is(storeErr, ErrStoreUnavailable) {
		t.Error("expected store-unavailable kind")
	}
	if errors.Is(storeErr, ErrMalformedInput) {
		t.Error("store error must not match malformed input")
	}
	if !errors.Is(storeErr, cause) {
		t.Error("cause should stay reachable")
	}
	if !IsRetryable(storeErr) || IsInputError(storeErr) {
		t.Error("store errors are retryable, not input errors")
	}

	shapeErr := WithFormat("JSON", fmt.Errorf("decode: %w", NewError(KindUnsupportedShape, "JSON array is empty")))
	if KindOf(shapeErr) != KindUnsupportedShape {
		t.Errorf("KindOf = %s", KindOf(shapeErr))
	}
	if !IsInputError(shapeErr) || IsRetryable(shapeErr) {
		t.Error("shape errors are input errors")
	}

	plain := WithFormat("JSONL", errors.New("boom"))
	if plain.Kind != KindInternal {
		t.Errorf("unclassified error kind = %s, want INTERNAL", plain.Kind)
	}
	if KindOf(errors.New("x")) != "" {
		t.Error("KindOf on a foreign error should be empty")
	}
}

func TestLineErrorIsPartialRecord(t *testing.T) {
	le := &LineError{Line: 2, Raw: "{invalid json}", Err: errors.New("invalid character 'i'")}
	if !errors.Is(le, ErrPartialRecord) {
		t.Error("LineError should match ErrPartialRecord")
	}
	if errors.Is(le, ErrMalformedInput) {
		t.Error("LineError must not match terminal kinds")
	}
	if le.Error() != "line 2: invalid character 'i'" {
		t.Errorf("unexpected message %q", le.Error())
	}
}
