// Package osutil names the platforms and exit codes zenbreath cares about
package osutil

const (
	Windows = "windows"
	Darwin  = "darwin"
)

type exitCode int

// ExitError is the exit status of a failed command.
const ExitError exitCode = 1
