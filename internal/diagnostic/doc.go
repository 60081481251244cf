// Package diagnostic accumulates metamodel validation failures.
//
// Key capabilities:
//   - Failures keyed by the identifier of the offending type or member
//   - Deduplication with insertion order preserved
//   - A deterministic, sorted view for reporting
//   - Numbered reports and a combined error
package diagnostic
