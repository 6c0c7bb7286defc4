/*
Package app contains the host of the vault.

The host decodes signed transactions, routes the carried message through a
chain of decorators to the extension handler and executes the follow-up
instructions the handler produced. Self-call instructions are routed back
into the vault with the vault address as the caller, all other
instructions are handed to a Dispatcher.
*/
package app
