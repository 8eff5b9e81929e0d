// Package banks maps Brazilian COMPE bank codes to institution names.
package banks

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Unknown is the name reported when no code or ORG field identifies the
// institution.
const Unknown = "Banco Desconhecido"

//go:embed banks.yaml
var defaultTable []byte

// Table resolves COMPE codes to bank names. Codes are matched without
// leading zeros, so 0341 and 341 name the same institution.
type Table struct {
	names map[string]string
}

// New builds a Table from the embedded COMPE listing.
func New() (*Table, error) {
	return parse(defaultTable)
}

// Load returns the table at path, or the embedded one when path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return New()
	}
	return LoadFile(path)
}

// LoadFile builds a Table from a YAML file mapping codes to names, for
// deployments that need institutions the embedded listing does not carry.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bank table: %w", err)
	}
	t, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing bank table %s: %w", path, err)
	}
	return t, nil
}

func parse(data []byte) (*Table, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling bank table: %w", err)
	}
	names := make(map[string]string, len(raw))
	for code, name := range raw {
		names[strings.TrimLeft(code, "0")] = name
	}
	return &Table{names: names}, nil
}

// Lookup returns the institution name for a COMPE code. The second return
// reports whether the code is known.
func (t *Table) Lookup(code string) (string, bool) {
	name, ok := t.names[strings.TrimLeft(code, "0")]
	return name, ok
}

// Len reports how many institutions the table knows.
func (t *Table) Len() int {
	return len(t.names)
}
