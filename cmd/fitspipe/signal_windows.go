//go:build windows

package main

import "os"

// shutdownSignals lists the signals that cancel a running stage.
// On Windows, only os.Interrupt is supported.
func shutdownSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
