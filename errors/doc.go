/*
Package errors implements coded errors for the vault.

The idea is to reuse as many errors from this package as possible and define
custom package errors only when absolutely necessary. Every error kind that
the vesting ledger, the governance engine and the role gate can return is
declared here, so that clients can tell them apart by their ABCI code.

If you want to register a custom error use Register(code, description).
For reusing errors use ErrXxx.New and ErrXxx.Newf or Wrap(ErrXxx, "...").

A stack trace is attached at the innermost wrap. Once you have an error, use
fmt to get more context:
	%s is just the error message
	%+v is the message followed by the stack trace
*/
package errors
