package cmd

import (
	"strings"
	"testing"

	"oscontrol/internal/cloud"
	"oscontrol/internal/config"
)

func TestStatusCommand(t *testing.T) {
	tests := []struct {
		name        string
		vm          *cloud.VM
		expectedOut []string
	}{
		{
			name:        "no vm with that name",
			vm:          nil,
			expectedOut: []string{`No VM found with the name "test-vm".`},
		},
		{
			name: "running vm",
			vm: &cloud.VM{
				ID:      "srv-1",
				Name:    "test-vm",
				Status:  "ACTIVE",
				Running: true,
				Network: "lab-net",
				IP:      "10.0.0.5",
			},
			expectedOut: []string{"srv-1", "test-vm", "ACTIVE", "running", "lab-net", "10.0.0.5"},
		},
		{
			name: "stopped vm without an address",
			vm: &cloud.VM{
				ID:     "srv-2",
				Name:   "test-vm",
				Status: "SHUTOFF",
			},
			expectedOut: []string{"srv-2", "SHUTOFF", "stopped"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeCompute{findVM: func(int) (*cloud.VM, error) { return tt.vm, nil }}
			mockEnv(t, fc, &fakeImages{}, config.Defaults{})

			output, err := executeCommand(rootCmd, "status", "test-vm")
			if err != nil {
				t.Fatalf("expected no error, but got: %v", err)
			}

			for _, expected := range tt.expectedOut {
				if !strings.Contains(output, expected) {
					t.Errorf("expected output to contain %q, but got %q", expected, output)
				}
			}
		})
	}
}

func TestRootCommandPrintsHelp(t *testing.T) {
	mockEnv(t, &fakeCompute{}, &fakeImages{}, config.Defaults{})

	output, err := executeCommand(rootCmd)
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
	if !strings.Contains(output, "Usage:") {
		t.Errorf("expected help output, got %q", output)
	}
}
