package diagnostic

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Origin identifies where a failure was found: a type, or a member of it.
type Origin struct {
	ClassName  string
	MemberName string
}

// String renders "ClassName#member" or just the class name.
func (o Origin) String() string {
	if o.MemberName == "" {
		return o.ClassName
	}

	return o.ClassName + "#" + o.MemberName
}

// ValidationFailure is a single deficiency of the metamodel.
type ValidationFailure struct {
	Origin Origin
	// Code is a unique identifier for the kind of deficiency.
	Code    string
	Message string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

type failureKey struct {
	origin  Origin
	message string
}

func (f *ValidationFailure) key() failureKey {
	return failureKey{origin: f.Origin, message: f.Message}
}

// Compare orders failures by class name, member name and message, with
// empty names first. A nil failure sorts after every non-nil one.
func Compare(a, b *ValidationFailure) int {
	switch {
	case a == b:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	return cmp.Or(
		cmp.Compare(a.Origin.ClassName, b.Origin.ClassName),
		cmp.Compare(a.Origin.MemberName, b.Origin.MemberName),
		cmp.Compare(a.Message, b.Message),
	)
}

// String returns a formatted failure string.
func (f ValidationFailure) String() string {
	msg := f.Message
	if f.Code != "" {
		msg = fmt.Sprintf("[%s] %s", f.Code, msg)
	}

	if len(f.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(f.Suggestions, ", ") + "?)"
	}

	if o := f.Origin.String(); o != "" {
		return o + ": " + msg
	}

	return msg
}

// ValidationFailures is a deduplicating set of failures that remembers
// insertion order. The zero value is ready to use; it is not safe for
// concurrent use.
type ValidationFailures struct {
	failures []*ValidationFailure
	seen     map[failureKey]struct{}
}

// Add records f unless an equal failure (same origin and message) exists.
// It reports whether f was added.
func (v *ValidationFailures) Add(f ValidationFailure) bool {
	if v.seen == nil {
		v.seen = make(map[failureKey]struct{})
	}

	k := f.key()
	if _, ok := v.seen[k]; ok {
		return false
	}

	v.seen[k] = struct{}{}
	v.failures = append(v.failures, &f)

	return true
}

// AddFor records a formatted failure for origin.
func (v *ValidationFailures) AddFor(origin Origin, code, format string, args ...any) bool {
	return v.Add(ValidationFailure{Origin: origin, Code: code, Message: fmt.Sprintf(format, args...)})
}

// AddAll merges other into v.
func (v *ValidationFailures) AddAll(other *ValidationFailures) {
	if other == nil {
		return
	}

	for _, f := range other.failures {
		v.Add(*f)
	}
}

// HasFailures reports whether any failure was recorded.
func (v *ValidationFailures) HasFailures() bool {
	return v != nil && len(v.failures) > 0
}

// Len returns the number of distinct failures.
func (v *ValidationFailures) Len() int {
	if v == nil {
		return 0
	}

	return len(v.failures)
}

// Failures returns the failures in insertion order.
func (v *ValidationFailures) Failures() []ValidationFailure {
	if v == nil {
		return nil
	}

	out := make([]ValidationFailure, len(v.failures))
	for i, f := range v.failures {
		out[i] = *f
	}

	return out
}

// Messages returns the failure messages in insertion order.
func (v *ValidationFailures) Messages() []string {
	if v == nil {
		return nil
	}

	out := make([]string, len(v.failures))
	for i, f := range v.failures {
		out[i] = f.Message
	}

	return out
}

// Deficiencies returns the failures sorted with Compare, or nil when there
// are none.
func (v *ValidationFailures) Deficiencies() []ValidationFailure {
	if !v.HasFailures() {
		return nil
	}

	sorted := slices.Clone(v.failures)
	slices.SortStableFunc(sorted, Compare)

	out := make([]ValidationFailure, len(sorted))
	for i, f := range sorted {
		out[i] = *f
	}

	return out
}

// Report renders the sorted failures as a numbered list, one per line,
// starting at 1.
func (v *ValidationFailures) Report() string {
	var b strings.Builder

	for i, f := range v.Deficiencies() {
		fmt.Fprintf(&b, "%d: %s\n", i+1, f.String())
	}

	return b.String()
}

// Error returns a combined error from all failures, or nil if there are none.
func (v *ValidationFailures) Error() error {
	if !v.HasFailures() {
		return nil
	}

	var parts []string
	for _, f := range v.Deficiencies() {
		parts = append(parts, f.String())
	}

	return errors.New(strings.Join(parts, "; "))
}
