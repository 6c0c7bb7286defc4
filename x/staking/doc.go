/*
Package staking lets operators stake the funds held by the vault. Handlers
never move tokens themselves, they produce instructions for the external
staking and distribution modules.

Withdrawn delegation rewards are forwarded to the staking reward
distribution address of the ledger and counted there.
*/
package staking
