// Package instance names the running process in logs and job lock owners.
package instance

import (
	"os"

	"github.com/alanhoffer/hf-dashboard/pkg/env"
)

// GetID returns HF_INSTANCE_ID, then DYNO, then the hostname, then fallback.
func GetID(fallback string) string {
	if id := env.Get("HF_INSTANCE_ID", env.Get("DYNO", "")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallback
}
