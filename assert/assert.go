// Package assert provides the minimal test assertions used across the
// repository: explicit, message-carrying checks on top of plain testing.T.
package assert

import (
	"reflect"
	"strings"
	"testing"
)

// Equal fails the test when got differs from want (deep comparison).
func Equal[T any](t *testing.T, want, got T, name string) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Errorf("%s: expected %#v, got %#v", name, want, got)
	}
}

// True fails the test when cond is false.
func True(t *testing.T, cond bool, name string) {
	t.Helper()
	if !cond {
		t.Errorf("%s: expected true", name)
	}
}

// False fails the test when cond is true.
func False(t *testing.T, cond bool, name string) {
	t.Helper()
	if cond {
		t.Errorf("%s: expected false", name)
	}
}

// Nil fails the test when v is a non-nil value.
func Nil(t *testing.T, v any, name string) {
	t.Helper()
	if !isNil(v) {
		t.Errorf("%s: expected nil, got %#v", name, v)
	}
}

// NotNil fails the test when v is nil.
func NotNil(t *testing.T, v any, name string) {
	t.Helper()
	if isNil(v) {
		t.Errorf("%s: expected non-nil", name)
	}
}

// NoError fails the test when err is non-nil.
func NoError(t *testing.T, err error, name string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: unexpected error: %v", name, err)
	}
}

// Contains fails the test when haystack does not contain needle.
func Contains(t *testing.T, haystack, needle, name string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("%s: expected %q to contain %q", name, haystack, needle)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
