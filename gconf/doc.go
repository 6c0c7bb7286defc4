/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension keeps a single configuration object under "_c:<pkg>". The
object is loaded from the "conf" section of the genesis document, validated
and stored with the canonical binary encoding.

Not being able to get a configuration value is a critical condition for the
application and there is no recovery path for the client. Application must be
terminated and configured correctly.
*/
package gconf
