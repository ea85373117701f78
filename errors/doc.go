// Package errors provides the structured error type used by every stage of
// call model generation.
//
// Errors are categorized by Phase (which stage failed) and Kind (what went
// wrong). Path names the entity that triggered the failure, outermost first:
// pallet, call, field.
//
//	err := errors.New(errors.PhaseResolve, errors.KindSchemaIntegrity).
//		Path("Balances", "transfer", "#1").
//		Detail("field has no name").
//		Build()
//
// Use errors.Is with the exported sentinels to test the kind of a failure
// regardless of the phase that produced it:
//
//	if errors.Is(err, callerrors.ErrDuplicateDiscriminant) { ... }
package errors
