package validate

import (
	"sync"

	"causeway-metamodel/internal/diagnostic"
	"causeway-metamodel/internal/spec"
)

// Validator checks the metamodel and records deficiencies.
type Validator interface {
	ValidateInto(failures *diagnostic.ValidationFailures)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(failures *diagnostic.ValidationFailures)

func (f ValidatorFunc) ValidateInto(failures *diagnostic.ValidationFailures) { f(failures) }

// Composite runs its children in order. Adding a Composite adds its
// children instead, so a composite never contains another composite.
type Composite struct {
	validators []Validator
}

// NewComposite returns a composite of validators.
func NewComposite(validators ...Validator) *Composite {
	c := &Composite{}
	c.Add(validators...)

	return c
}

// Add appends validators, flattening nested composites. Nil validators are
// ignored.
func (c *Composite) Add(validators ...Validator) {
	for _, v := range validators {
		switch v := v.(type) {
		case nil:
		case *Composite:
			if v != nil && v != c {
				c.validators = append(c.validators, v.validators...)
			}
		default:
			c.validators = append(c.validators, v)
		}
	}
}

// Len is the number of leaf validators.
func (c *Composite) Len() int { return len(c.validators) }

// Validators returns the leaf validators in order.
func (c *Composite) Validators() []Validator { return c.validators }

func (c *Composite) ValidateInto(failures *diagnostic.ValidationFailures) {
	for _, v := range c.validators {
		v.ValidateInto(failures)
	}
}

// SpecSource provides the specifications to validate.
type SpecSource interface {
	Snapshot() []*spec.ObjectSpecification
}

// Visitor inspects one specification at a time.
type Visitor interface {
	Visit(s *spec.ObjectSpecification, failures *diagnostic.ValidationFailures)
}

// SummarizingVisitor is a Visitor with a final pass over what it collected.
type SummarizingVisitor interface {
	Visitor
	Summarize(failures *diagnostic.ValidationFailures)
}

// VisitorFunc adapts a function to Visitor.
type VisitorFunc func(s *spec.ObjectSpecification, failures *diagnostic.ValidationFailures)

func (f VisitorFunc) Visit(s *spec.ObjectSpecification, failures *diagnostic.ValidationFailures) {
	f(s, failures)
}

// Visiting drives a visitor over every specification of the source that is
// neither a managed bean nor unknown. Runs are serialized, so a visitor may
// keep state between Visit and Summarize.
type Visiting struct {
	mu      sync.Mutex
	source  SpecSource
	visitor Visitor
}

// NewVisiting creates a visiting validator.
func NewVisiting(source SpecSource, visitor Visitor) *Visiting {
	return &Visiting{source: source, visitor: visitor}
}

func (v *Visiting) ValidateInto(failures *diagnostic.ValidationFailures) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, s := range v.source.Snapshot() {
		if !s.BeanSort().IsIntrospectable() {
			continue
		}

		v.visitor.Visit(s, failures)
	}

	if sv, ok := v.visitor.(SummarizingVisitor); ok {
		sv.Summarize(failures)
	}
}

// OriginOf converts an identifier to a failure origin.
func OriginOf(id spec.Identifier) diagnostic.Origin {
	return diagnostic.Origin{ClassName: id.ClassName, MemberName: id.MemberName}
}
