/*
Package gringotts defines the common interfaces of the vault state machine
together with implementations of the simpler shared components.

Every command is a Msg wrapped in a Tx. A Router directs it, through a chain
of Decorators, to the Handler of its extension. Handlers receive a BlockInfo
with all framework-defined information (height, block time, chain id and a
logger) so that no extension ever reads a wall clock. The result of a
delivered command may carry a list of Instructions that the host executes
after the state change is written.

For custom info that is only to be consumed within a particular extension you
can make use of context.Context. Authentication information is passed that
way.
*/
package gringotts
