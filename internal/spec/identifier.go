package spec

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// FeatureKind distinguishes what an Identifier points at.
type FeatureKind int

const (
	FeatureObject FeatureKind = iota
	FeatureProperty
	FeatureCollection
	FeatureAction
	FeatureParameter
)

// String returns a human-readable feature kind.
func (k FeatureKind) String() string {
	switch k {
	case FeatureObject:
		return "object"
	case FeatureProperty:
		return "property"
	case FeatureCollection:
		return "collection"
	case FeatureAction:
		return "action"
	case FeatureParameter:
		return "parameter"
	default:
		return fmt.Sprintf("FeatureKind(%d)", int(k))
	}
}

// Identifier locates a type, member or action parameter.
type Identifier struct {
	ClassName       string
	LogicalTypeName string
	MemberName      string
	Kind            FeatureKind
	ParamIndex      int
}

// TypeIdentifier identifies a type.
func TypeIdentifier(className, logicalTypeName string) Identifier {
	return Identifier{ClassName: className, LogicalTypeName: logicalTypeName, Kind: FeatureObject}
}

// Member identifies a member of the type this identifier points at.
func (id Identifier) Member(name string, kind FeatureKind) Identifier {
	return Identifier{
		ClassName:       id.ClassName,
		LogicalTypeName: id.LogicalTypeName,
		MemberName:      name,
		Kind:            kind,
	}
}

// Param identifies the index-th parameter of an action identifier.
func (id Identifier) Param(index int) Identifier {
	id.Kind = FeatureParameter
	id.ParamIndex = index

	return id
}

// String renders "ClassName#member" or "ClassName#action[2]".
func (id Identifier) String() string {
	var b strings.Builder

	b.WriteString(id.ClassName)

	if id.MemberName != "" {
		b.WriteByte('#')
		b.WriteString(id.MemberName)
	}

	if id.Kind == FeatureParameter {
		fmt.Fprintf(&b, "[%d]", id.ParamIndex)
	}

	return b.String()
}

// LogicalMemberIdentifier renders the wire form "logicalTypeName#member".
func (id Identifier) LogicalMemberIdentifier() string {
	return id.LogicalTypeName + "#" + id.MemberName
}

// ErrMalformedIdentifier is returned for member identifiers without a '#'.
var ErrMalformedIdentifier = errors.New("malformed logical member identifier")

// ErrFeatureNotFound is returned when an identifier does not resolve to a
// member or parameter of a loaded specification.
var ErrFeatureNotFound = errors.New("feature not found")

// ParseLogicalMemberIdentifier splits "logicalTypeName#member".
func ParseLogicalMemberIdentifier(s string) (logicalTypeName, member string, err error) {
	logicalTypeName, member, ok := strings.Cut(s, "#")
	if !ok || logicalTypeName == "" || member == "" {
		return "", "", errors.Wrapf(ErrMalformedIdentifier, "%q", s)
	}

	return logicalTypeName, member, nil
}

// CompareIdentifiers orders by class name, member name, kind then parameter index.
func CompareIdentifiers(a, b Identifier) int {
	return cmp.Or(
		cmp.Compare(a.ClassName, b.ClassName),
		cmp.Compare(a.MemberName, b.MemberName),
		cmp.Compare(a.Kind, b.Kind),
		cmp.Compare(a.ParamIndex, b.ParamIndex),
	)
}
