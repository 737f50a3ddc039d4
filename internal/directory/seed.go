// Package directory supplies the office catalog seed loaded at startup.
package directory

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/example/maintenance-tracker/internal/persistence"
)

// DefaultOffices returns the built-in office catalog used when no seed file
// is configured.
func DefaultOffices() []persistence.Office {
	return []persistence.Office{
		{
			ID:          "1",
			Name:        "Downtown Office",
			Address:     "123 Main St, Downtown",
			PayRate:     150,
			Description: "Main downtown office building",
		},
		{
			ID:          "2",
			Name:        "Westside Branch",
			Address:     "456 West Ave, Westside",
			PayRate:     125,
			Description: "Branch office in western district",
		},
		{
			ID:          "3",
			Name:        "Eastside Branch",
			Address:     "789 East Blvd, Eastside",
			PayRate:     135,
			Description: "Branch office in eastern district",
		},
		{
			ID:          "4",
			Name:        "Southside Branch",
			Address:     "101 South St, Southside",
			PayRate:     145,
			Description: "Branch office in southern district",
		},
		{
			ID:          "5",
			Name:        "Northside Branch",
			Address:     "202 North Ave, Northside",
			PayRate:     140,
			Description: "Branch office in northern district",
		},
	}
}

type seedOffice struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	PayRate     float64 `json:"pay_rate"`
	Description string  `json:"description,omitempty"`
}

// LoadSeed reads an office catalog from a JSON seed file. An empty path
// yields the default catalog.
func LoadSeed(path string) ([]persistence.Office, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultOffices(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read office seed: %w", err)
	}

	var seeds []seedOffice
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("failed to parse office seed: %w", err)
	}

	offices := make([]persistence.Office, 0, len(seeds))
	seen := make(map[string]struct{}, len(seeds))
	for i, seed := range seeds {
		id := strings.TrimSpace(seed.ID)
		if id == "" {
			return nil, fmt.Errorf("office seed entry %d: id is required", i)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("office seed entry %d: duplicate id %q", i, id)
		}
		if strings.TrimSpace(seed.Name) == "" {
			return nil, fmt.Errorf("office seed entry %d: name is required", i)
		}
		if seed.PayRate <= 0 {
			return nil, fmt.Errorf("office seed entry %d: pay rate must be positive", i)
		}
		seen[id] = struct{}{}
		offices = append(offices, persistence.Office{
			ID:          id,
			Name:        strings.TrimSpace(seed.Name),
			Address:     strings.TrimSpace(seed.Address),
			PayRate:     seed.PayRate,
			Description: strings.TrimSpace(seed.Description),
		})
	}

	if len(offices) == 0 {
		return nil, fmt.Errorf("office seed %s contains no offices", path)
	}

	return offices, nil
}
