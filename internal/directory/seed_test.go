package directory

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOffices(t *testing.T) {
	t.Parallel()

	offices := DefaultOffices()
	if len(offices) != 5 {
		t.Fatalf("expected 5 default offices, got %d", len(offices))
	}
	if offices[0].ID != "1" || offices[0].PayRate != 150 {
		t.Fatalf("unexpected first office %+v", offices[0])
	}

	seen := make(map[string]struct{})
	for _, office := range offices {
		if _, ok := seen[office.ID]; ok {
			t.Fatalf("duplicate office id %s", office.ID)
		}
		seen[office.ID] = struct{}{}
		if office.PayRate <= 0 {
			t.Fatalf("office %s has non-positive pay rate", office.ID)
		}
	}
}

func TestLoadSeed_EmptyPathUsesDefaults(t *testing.T) {
	t.Parallel()

	offices, err := LoadSeed("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(offices) != len(DefaultOffices()) {
		t.Fatalf("expected default catalog, got %d offices", len(offices))
	}
}

func TestLoadSeed_FromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "offices.json")
	payload := `[
		{"id": "hq", "name": "Headquarters", "address": "1 Plaza", "pay_rate": 200, "description": "Primary"},
		{"id": "annex", "name": "Annex", "address": "2 Plaza", "pay_rate": 90.5}
	]`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}

	offices, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(offices) != 2 {
		t.Fatalf("expected 2 offices, got %d", len(offices))
	}
	if offices[0].ID != "hq" || offices[1].PayRate != 90.5 {
		t.Fatalf("unexpected offices %+v", offices)
	}
}

func TestLoadSeed_RejectsInvalidEntries(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"missing id":    `[{"name": "X", "address": "Y", "pay_rate": 10}]`,
		"duplicate id":  `[{"id": "a", "name": "X", "address": "Y", "pay_rate": 10}, {"id": "a", "name": "Z", "address": "W", "pay_rate": 20}]`,
		"zero pay rate": `[{"id": "a", "name": "X", "address": "Y", "pay_rate": 0}]`,
		"empty catalog": `[]`,
		"malformed":     `{not json`,
	}

	for name, payload := range cases {
		name, payload := name, payload
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "offices.json")
			if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
				t.Fatalf("failed to write seed file: %v", err)
			}
			if _, err := LoadSeed(path); err == nil {
				t.Fatalf("expected %s to be rejected", name)
			}
		})
	}
}
