package banks

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookup(t *testing.T) {
	table, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	cases := []struct {
		code string
		want string
	}{
		{"001", "Banco do Brasil S.A."},
		{"1", "Banco do Brasil S.A."},
		{"0341", "Itaú Unibanco S.A."},
		{"341", "Itaú Unibanco S.A."},
		{"033", "Banco Santander (Brasil) S.A."},
		{"104", "Caixa Econômica Federal"},
		{"237", "Banco Bradesco S.A."},
	}

	for _, c := range cases {
		got, ok := table.Lookup(c.code)
		if !ok {
			t.Errorf("Lookup(%q): expected a match", c.code)
			continue
		}
		if got != c.want {
			t.Errorf("Lookup(%q): expected %q, got %q", c.code, c.want, got)
		}
	}
}

func TestLookupUnknownCode(t *testing.T) {
	table, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if name, ok := table.Lookup("999"); ok {
		t.Errorf("expected no match for 999, got %q", name)
	}
	if name, ok := table.Lookup(""); ok {
		t.Errorf("expected no match for empty code, got %q", name)
	}
}

func TestLoadFile(t *testing.T) {
	content := `"999": Banco de Teste S.A.
"0042": Banco Quarenta e Dois
`
	tmpFile := filepath.Join(t.TempDir(), "banks.yaml")
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	table, err := LoadFile(tmpFile)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if name, ok := table.Lookup("999"); !ok || name != "Banco de Teste S.A." {
		t.Errorf("expected Banco de Teste S.A., got %q (ok=%v)", name, ok)
	}
	if name, ok := table.Lookup("42"); !ok || name != "Banco Quarenta e Dois" {
		t.Errorf("expected zero-insensitive match, got %q (ok=%v)", name, ok)
	}
	if table.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", table.Len())
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadEmptyPathUsesEmbeddedTable(t *testing.T) {
	table, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := table.Lookup("341"); !ok {
		t.Error("embedded table missing Itaú")
	}
}
