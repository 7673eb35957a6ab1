// Package logging implements ldmcsv.Logger.
//
// ConsoleLogger prints to stderr or any io.Writer and tags verbose and error
// lines. NullLogger discards everything and is what tests pass around.
package logging
