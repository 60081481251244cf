package schema

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// ToXML renders a DTO as an indented XML document.
func ToXML(v any) (string, error) {
	var b strings.Builder

	b.WriteString(xml.Header)

	enc := xml.NewEncoder(&b)
	enc.Indent("", "  ")

	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to marshal %T: %w", v, err)
	}

	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to marshal %T: %w", v, err)
	}

	b.WriteByte('\n')

	return b.String(), nil
}

// FromXML parses a DTO from an XML document.
func FromXML[T any](s string) (*T, error) {
	return ReadXML[T](strings.NewReader(s))
}

// ReadXML parses a DTO from r.
func ReadXML[T any](r io.Reader) (*T, error) {
	var v T

	if err := xml.NewDecoder(r).Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to parse %T: %w", v, err)
	}

	return &v, nil
}
