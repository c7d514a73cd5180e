package obsparse

import "testing"

func TestParseStructuredFields(t *testing.T) {
	got := Parse("Área: ROD | Máquina: TREF 2 | Material: COBRE")

	if got.Area == nil || *got.Area != "ROD" {
		t.Errorf("Area = %v, want ROD", got.Area)
	}
	if got.Maquina == nil || *got.Maquina != "TREF 2" {
		t.Errorf("Maquina = %v, want TREF 2", got.Maquina)
	}
	if got.Material == nil || *got.Material != "COBRE" {
		t.Errorf("Material = %v, want COBRE", got.Material)
	}
	if len(got.Notas) != 0 {
		t.Errorf("Notas = %v, want empty", got.Notas)
	}
}

func TestParseAccentlessLabels(t *testing.T) {
	got := Parse("area: EMPAQUE | maquina: EMP 1")

	if got.Area == nil || *got.Area != "EMPAQUE" {
		t.Errorf("Area = %v, want EMPAQUE", got.Area)
	}
	if got.Maquina == nil || *got.Maquina != "EMP 1" {
		t.Errorf("Maquina = %v, want EMP 1", got.Maquina)
	}
}

func TestParseFreeNotes(t *testing.T) {
	got := Parse("Área: ROD | Turno: 2 | pesa descalibrada")

	if got.Area == nil || *got.Area != "ROD" {
		t.Errorf("Area = %v, want ROD", got.Area)
	}
	want := []string{"Turno: 2", "pesa descalibrada"}
	if len(got.Notas) != len(want) {
		t.Fatalf("Notas = %v, want %v", got.Notas, want)
	}
	for i := range want {
		if got.Notas[i] != want[i] {
			t.Errorf("Notas[%d] = %q, want %q", i, got.Notas[i], want[i])
		}
	}
}

func TestParseNullCases(t *testing.T) {
	for _, raw := range []string{"", SentinelAutomatic} {
		got := Parse(raw)
		if got.Area != nil || got.Maquina != nil || got.Material != nil {
			t.Errorf("Parse(%q) has structured fields, want all nil", raw)
		}
		if len(got.Notas) != 0 {
			t.Errorf("Parse(%q).Notas = %v, want empty", raw, got.Notas)
		}
		if got.Original != raw {
			t.Errorf("Parse(%q).Original = %q", raw, got.Original)
		}
	}
}

func TestParseNeverErrorsOnGarbage(t *testing.T) {
	cases := []string{
		"|||",
		" | | ",
		"Área:",
		"Material:   ",
		"solo una nota",
	}
	for _, raw := range cases {
		got := Parse(raw)
		if got.Original != raw {
			t.Errorf("Parse(%q).Original = %q", raw, got.Original)
		}
	}

	// An empty label value counts as matched but assigns nothing
	got := Parse("Área:")
	if got.Area != nil {
		t.Errorf("empty label value assigned %q", *got.Area)
	}
	if len(got.Notas) != 0 {
		t.Errorf("empty label pushed to notes: %v", got.Notas)
	}
}
