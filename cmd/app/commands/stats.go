package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/NotDonCitron/BlueBirdHub-sub005/internal/app"
	"github.com/NotDonCitron/BlueBirdHub-sub005/internal/config"
)

// statsOutput is the JSON shape printed by the stats command.
type statsOutput struct {
	State            string         `json:"state"`
	Enabled          bool           `json:"enabled"`
	TotalKeys        int            `json:"totalKeys"`
	KeysByProvenance map[string]int `json:"keysByProvenance"`
	AuditCapacity    int            `json:"auditCapacity"`
	Operations       struct {
		Total    int            `json:"total"`
		Success  int            `json:"success"`
		Failed   int            `json:"failed"`
		ByAction map[string]int `json:"byAction"`
	} `json:"operations"`
}

// RunStats prints the encryption subsystem diagnostics snapshot as JSON.
// The manager is inspected without being initialized, so a fresh process
// reports the uninitialized state and zero keys.
func RunStats(ctx context.Context, io IOTuple) error {
	container := app.NewContainer(config.Load())
	logger := container.Logger()
	defer closeContainer(container, logger)

	manager, err := container.EncryptionManager()
	if err != nil {
		return fmt.Errorf("failed to build encryption manager: %w", err)
	}

	stats := manager.Stats()

	output := statsOutput{
		State:            string(stats.State),
		Enabled:          stats.Enabled,
		TotalKeys:        stats.TotalKeys,
		KeysByProvenance: make(map[string]int, len(stats.KeysByProvenance)),
		AuditCapacity:    stats.AuditCapacity,
	}
	for provenance, count := range stats.KeysByProvenance {
		output.KeysByProvenance[string(provenance)] = count
	}
	output.Operations.Total = stats.Operations.Total
	output.Operations.Success = stats.Operations.Success
	output.Operations.Failed = stats.Operations.Failed
	output.Operations.ByAction = make(map[string]int, len(stats.Operations.ByAction))
	for action, count := range stats.Operations.ByAction {
		output.Operations.ByAction[string(action)] = count
	}

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	fmt.Fprintln(io.Writer, string(encoded))
	return nil
}
