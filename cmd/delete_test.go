package cmd

import (
	"testing"

	"oscontrol/internal/cloud"
	"oscontrol/internal/config"
)

func TestDeleteCommand(t *testing.T) {
	t.Run("existing vm", func(t *testing.T) {
		fc := &fakeCompute{findVM: func(call int) (*cloud.VM, error) {
			if call <= 2 {
				return &cloud.VM{ID: "srv-1", Name: "test-vm", Status: cloud.StatusActive}, nil
			}
			return nil, nil
		}}
		mockEnv(t, fc, &fakeImages{}, config.Defaults{})

		if _, err := executeCommand(rootCmd, "delete", "test-vm"); err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if fc.deletes != 1 {
			t.Errorf("expected exactly one delete call, got %d", fc.deletes)
		}
	})

	t.Run("absent vm is a no-op", func(t *testing.T) {
		fc := &fakeCompute{}
		mockEnv(t, fc, &fakeImages{}, config.Defaults{})

		if _, err := executeCommand(rootCmd, "delete", "ghost"); err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if fc.deletes != 0 {
			t.Errorf("expected no delete calls for an absent VM, got %d", fc.deletes)
		}
	})
}
