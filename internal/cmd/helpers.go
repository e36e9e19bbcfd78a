package cmd

import (
	"io"
	"os"
)

// Helper functions for cmds

// IsDataFromStdin helps to determine if there's data from stdin
func IsDataFromStdin() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}

	// Check if stdin is not a terminal and there is data to read
	return info.Mode()&os.ModeCharDevice == 0
}

// StdinDashboard returns stdin as a dashboard source when something is piped in,
// e.g. `curl .../api/dashboards/uid/<uid> | grafana2moira convert -m`.
func StdinDashboard() (io.Reader, bool) {
	if !IsDataFromStdin() {
		return nil, false
	}
	return os.Stdin, true
}
