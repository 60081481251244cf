// Package match ranks names by similarity to produce "did you mean"
// suggestions for logical type names, member names and directive markers.
//
// Key functions:
//   - NormalizeIdent: folds identifiers and dotted names for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks the closest candidates for a misspelled name
package match
