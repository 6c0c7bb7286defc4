/*
Package x contains the authentication helpers shared by all vault
extensions.

Extensions implement the vault functionality (Handler, Decorator,
Initializer) and are combined together by the app package. Each of
them lives in a sub-package: roles, vesting, staking, gov and sigs.

Note that types in exported code will be prefixed by the package, so
follow standard go naming conventions and avoid stutter. Use eg.
`gov.VoteMsg` in place of `gov.GovVoteMsg`.
*/
package x
