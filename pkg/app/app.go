// Package app holds the contract between cmd/swap-server and the process it runs. The
// binary only parses flags and config; everything after that sits behind Runner.
package app

// Runner runs a process until it is told to stop or fails.
type Runner interface {
	Run() error
}
