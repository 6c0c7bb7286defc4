// Package vaulttest provides mocks and helpers that make testing vault
// extensions easier. Nothing in this package is meant to be used outside
// of tests.
package vaulttest
