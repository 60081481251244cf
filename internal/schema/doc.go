// Package schema defines the versioned XML DTOs that commands, interaction
// logs and audit payloads are written in, together with helpers to build
// and read them.
//
// The 2.0 vocabularies are:
//   - cmd: CommandDto with an ActionDto or PropertyDto
//   - ixn: InteractionDto with an ActionInvocationDto or PropertyEditDto
//
// Values travel as ValueWithTypeDto: a ValueType tag, an optional null flag
// and exactly one populated element of ValueDto.
package schema
