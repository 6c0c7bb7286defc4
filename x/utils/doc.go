/*
Package utils contains decorators shared by all extensions: savepoints,
panic recovery, logging and action tagging.
*/
package utils
