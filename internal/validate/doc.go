// Package validate runs metamodel validators over loaded specifications and
// accumulates their findings in diagnostic.ValidationFailures.
//
// Validators are composed with Composite, which keeps its children flat.
// Visiting drives a Visitor over every introspectable specification; a
// SummarizingVisitor additionally reports cross-specification findings once
// all specifications have been seen.
package validate
