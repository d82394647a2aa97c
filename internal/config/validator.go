package config

import (
	"fmt"
	"strings"
)

// Validate checks the config for:
//   - Required version field
//   - A known inactivity policy variant
//   - A sane brute-force threshold
//   - Non-empty denylists
//
// All problems are collected into one error so a broken config is
// fixed in one round trip.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Version == "" {
		errs = append(errs, "version is required")
	}
	switch cfg.Policies.Inactivity {
	case "strict", "broad":
	default:
		errs = append(errs, fmt.Sprintf("policies.inactivity: unknown variant %q (want strict or broad)", cfg.Policies.Inactivity))
	}
	if cfg.Policies.BruteForceThreshold < 1 {
		errs = append(errs, fmt.Sprintf("policies.brute_force_threshold: must be >= 1, got %d", cfg.Policies.BruteForceThreshold))
	}
	if len(cfg.Denylists.Processes) == 0 {
		errs = append(errs, "denylists.processes must not be empty")
	}
	if len(cfg.Denylists.Services) == 0 {
		errs = append(errs, "denylists.services must not be empty")
	}
	for i, n := range cfg.Denylists.Processes {
		if strings.TrimSpace(n) == "" {
			errs = append(errs, fmt.Sprintf("denylists.processes[%d]: empty name", i))
		}
	}
	for i, n := range cfg.Denylists.Services {
		if strings.TrimSpace(n) == "" {
			errs = append(errs, fmt.Sprintf("denylists.services[%d]: empty name", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
