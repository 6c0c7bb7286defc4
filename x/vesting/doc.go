/*
Package vesting implements the ledger of the vault: a fixed unlock schedule
that matures over time and the counters of everything withdrawn so far.

Matured principal is released to the unlocked distribution address on
request of an operator. The whole remaining schedule can be drained only by
an executed governance proposal.
*/
package vesting
