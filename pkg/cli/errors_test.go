package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("listen_address: must not be empty")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config with path", NewConfigError("voicebroker.yaml", cause), "invalid configuration voicebroker.yaml: listen_address: must not be empty"},
		{"config without path", NewConfigError("", cause), "invalid configuration: listen_address: must not be empty"},
		{"command", NewCommandError("run", cause), "command run failed: listen_address: must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, cause) {
				t.Error("errors.Is() lost the cause")
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitFailure},
		{"command", NewCommandError("store", errors.New("boom")), ExitFailure},
		{"config", NewConfigError("c.yaml", errors.New("bad")), ExitConfigError},
		{"wrapped config", fmt.Errorf("startup: %w", NewConfigError("", errors.New("bad"))), ExitConfigError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
