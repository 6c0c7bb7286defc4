/*
Package gov implements the multisig governance of the vault.

Administrators create proposals, each carrying an ordered list of
instructions. Every administrator has one vote of weight one. A proposal
passes once the yes weight reaches the threshold snapshotted at creation
and can then be processed exactly once, which releases its instructions
to the host.

Status is computed from the tally, the snapshots and the expiration on
every read. Only the executed status is stored as a fact.
*/
package gov
