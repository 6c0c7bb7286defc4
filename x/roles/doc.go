/*
Package roles keeps the two role tables of the vault, administrators and
operators, and the identity of the vault itself.

Every handler that mutates state asks the Gate first. Administrators may
propose and vote, operators may trigger staking and scheduled withdrawals
and the vault identity is reserved to self-calls produced by executed
governance proposals. Role tables are edited only through such self-calls.
*/
package roles
