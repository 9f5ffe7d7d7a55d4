// Package codetable maps subject codes to account names.
package codetable

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	"gopkg.in/yaml.v3"
)

//go:embed default_codes.yaml
var defaultCodes []byte

// Table is a static, read-only code to name lookup.
type Table struct {
	names map[domain.SubjectCode]string
}

type codeItem struct {
	// String so that both `"id": 100` and `"id": "100"` decode.
	ID string `yaml:"id"`
}

// Default returns the embedded code table.
func Default() *Table {
	t, err := Parse(defaultCodes)
	if err != nil {
		panic(fmt.Sprintf("embedded code table: %v", err))
	}
	return t
}

// Load reads a code table file. JSON and YAML are both accepted.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading code table: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing code table %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a document shaped {"<name>": {"id": <code>}}.
func Parse(data []byte) (*Table, error) {
	var raw map[string]codeItem
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	t := &Table{names: make(map[domain.SubjectCode]string, len(raw))}
	for name, item := range raw {
		v, err := strconv.Atoi(item.ID)
		if err != nil {
			return nil, fmt.Errorf("code for %q: %w", name, err)
		}
		code, err := domain.NewSubjectCode(v)
		if err != nil {
			return nil, fmt.Errorf("code for %q: %w", name, err)
		}
		if prev, dup := t.names[code]; dup {
			return nil, fmt.Errorf("code %s assigned to both %q and %q", code, prev, name)
		}
		t.names[code] = name
	}
	return t, nil
}

// Name returns the account name, or domain.UnknownSubject for codes not in the table.
func (t *Table) Name(code domain.SubjectCode) string {
	if name, ok := t.names[code]; ok {
		return name
	}
	return domain.UnknownSubject
}

// Codes lists the known codes in ascending order.
func (t *Table) Codes() []domain.SubjectCode {
	out := make([]domain.SubjectCode, 0, len(t.names))
	for c := range t.names {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
