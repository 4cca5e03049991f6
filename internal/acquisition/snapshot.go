package acquisition

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/couchcryptid/aero-ops/internal/domain"
)

// LoadSnapshot reads the fixed fallback observations from a JSON file
// (a plain array of observation records, as written by cmd/genflights).
// Records failing the observation invariants are dropped at load time so a
// degraded fetch never has to re-validate the snapshot.
func LoadSnapshot(path string) ([]domain.Observation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var raw []domain.Observation
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	kept := make([]domain.Observation, 0, len(raw))
	for _, o := range raw {
		if o.Valid() {
			kept = append(kept, o)
		}
	}
	return kept, nil
}
