package spec

import (
	"strings"
)

// TagKey is the struct tag key read during introspection.
const TagKey = "causeway"

// Tag options understood on fields.
const (
	TagNullable    = "nullable"
	TagOptionality = "optionality"
	TagRegex       = "regex"
	TagPattern     = "pattern"
	TagHidden      = "hidden"
)

// memberTag is a parsed `causeway:"..."` field tag.
type memberTag struct {
	skip    bool
	options map[string]string
}

// parseMemberTag splits "nullable,optionality=mandatory,pattern=^a.*$".
// A single "-" excludes the field. Options without a value map to "true".
func parseMemberTag(tag string) memberTag {
	if tag == "-" {
		return memberTag{skip: true}
	}

	mt := memberTag{options: map[string]string{}}

	for part := range strings.SplitSeq(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		k, v, ok := strings.Cut(part, "=")
		if !ok {
			v = "true"
		}

		mt.options[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}

	return mt
}

func (t memberTag) get(key string) (string, bool) {
	v, ok := t.options[key]
	return v, ok
}

// parseSemantics maps "optional"/"mandatory" (and their synonyms) to Semantics.
func parseSemantics(v string) (Semantics, bool) {
	switch strings.ToLower(v) {
	case "optional", "true":
		return Optional, true
	case "mandatory", "required", "false":
		return Required, true
	default:
		return Required, false
	}
}
