package schema

import (
	"encoding/xml"
	"time"
)

// Schema namespaces.
const (
	NamespaceCmd = "https://causeway.apache.org/schema/cmd/2.0"
	NamespaceIxn = "https://causeway.apache.org/schema/ixn/2.0"
)

const (
	MajorVersion = "2"
	MinorVersion = "0"
)

// ParamDto is a named action argument.
type ParamDto struct {
	Name string `xml:"name,attr"`
	ValueWithTypeDto
}

// ParamsDto lists the arguments of an action in declaration order.
type ParamsDto struct {
	Params []ParamDto `xml:"parameter"`
}

// ActionDto describes an action invocation request.
type ActionDto struct {
	LogicalMemberIdentifier string    `xml:"logicalMemberIdentifier,attr"`
	Parameters              ParamsDto `xml:"parameters"`
}

// PropertyDto describes a property edit request.
type PropertyDto struct {
	LogicalMemberIdentifier string            `xml:"logicalMemberIdentifier,attr"`
	NewValue                *ValueWithTypeDto `xml:"newValue,omitempty"`
}

// CommandDto is the intention to act on one or more targets.
type CommandDto struct {
	XMLName       xml.Name     `xml:"https://causeway.apache.org/schema/cmd/2.0 command"`
	MajorVersion  string       `xml:"majorVersion,attr"`
	MinorVersion  string       `xml:"minorVersion,attr"`
	InteractionID string       `xml:"interactionId"`
	Username      string       `xml:"username,omitempty"`
	Timestamp     time.Time    `xml:"timestamp"`
	Targets       []OidDto     `xml:"targets>oid"`
	Action        *ActionDto   `xml:"action,omitempty"`
	Property      *PropertyDto `xml:"property,omitempty"`
}

// NewCommandDto creates a command with the current schema version.
func NewCommandDto(interactionID string, ts time.Time, targets ...OidDto) *CommandDto {
	return &CommandDto{
		MajorVersion:  MajorVersion,
		MinorVersion:  MinorVersion,
		InteractionID: interactionID,
		Timestamp:     ts,
		Targets:       targets,
	}
}

// ActionInvocationDto records an executed action and its result.
type ActionInvocationDto struct {
	Sequence                int               `xml:"sequence,attr"`
	LogicalMemberIdentifier string            `xml:"logicalMemberIdentifier,attr"`
	Target                  OidDto            `xml:"target"`
	Parameters              ParamsDto         `xml:"parameters"`
	ReturnedValue           *ValueWithTypeDto `xml:"returned,omitempty"`
}

// PropertyEditDto records an executed property edit.
type PropertyEditDto struct {
	Sequence                int               `xml:"sequence,attr"`
	LogicalMemberIdentifier string            `xml:"logicalMemberIdentifier,attr"`
	Target                  OidDto            `xml:"target"`
	NewValue                *ValueWithTypeDto `xml:"newValue,omitempty"`
}

// InteractionDto is the log of one interaction.
type InteractionDto struct {
	XMLName          xml.Name             `xml:"https://causeway.apache.org/schema/ixn/2.0 interaction"`
	MajorVersion     string               `xml:"majorVersion,attr"`
	MinorVersion     string               `xml:"minorVersion,attr"`
	InteractionID    string               `xml:"interactionId"`
	ActionInvocation *ActionInvocationDto `xml:"actionInvocation,omitempty"`
	PropertyEdit     *PropertyEditDto     `xml:"propertyEdit,omitempty"`
}

// NewInteractionDto creates an interaction with the current schema version.
func NewInteractionDto(interactionID string) *InteractionDto {
	return &InteractionDto{
		MajorVersion:  MajorVersion,
		MinorVersion:  MinorVersion,
		InteractionID: interactionID,
	}
}
