package cmd

import (
	"testing"

	"oscontrol/internal/cloud"
	"oscontrol/internal/config"
)

func TestStopCommand(t *testing.T) {
	t.Run("running vm", func(t *testing.T) {
		fc := &fakeCompute{findVM: func(call int) (*cloud.VM, error) {
			return &cloud.VM{ID: "srv-1", Name: "test-vm", Status: cloud.StatusActive, Running: call < 2}, nil
		}}
		mockEnv(t, fc, &fakeImages{}, config.Defaults{})

		if _, err := executeCommand(rootCmd, "stop", "test-vm"); err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if fc.stops != 1 {
			t.Errorf("expected exactly one stop call, got %d", fc.stops)
		}
	})

	t.Run("already stopped is a no-op", func(t *testing.T) {
		fc := &fakeCompute{findVM: func(int) (*cloud.VM, error) {
			return &cloud.VM{ID: "srv-1", Name: "test-vm", Status: "SHUTOFF"}, nil
		}}
		mockEnv(t, fc, &fakeImages{}, config.Defaults{})

		if _, err := executeCommand(rootCmd, "stop", "test-vm"); err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if fc.stops != 0 {
			t.Errorf("expected no stop calls for a stopped VM, got %d", fc.stops)
		}
	})
}
