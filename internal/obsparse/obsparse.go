// Package obsparse decodes the legacy pipe-delimited observation
// strings ("Área: X | Máquina: Y | Material: Z | nota libre") that
// older ledger rows use instead of normalized columns.
//
// The format was never enforced, so parsing is best-effort by design:
// anything that does not match a known label is kept as a note, and no
// input is ever rejected.
package obsparse

import "strings"

// SentinelAutomatic marks rows created by the scale without operator
// annotations. It carries no structured data.
const SentinelAutomatic = "Proceso Automático"

// Parsed holds the structured fields recovered from an observation
// string. Fields are nil when the corresponding label was absent.
type Parsed struct {
	Area     *string  `json:"area"`
	Maquina  *string  `json:"maquina"`
	Material *string  `json:"material"`
	Notas    []string `json:"notas"`
	Original string   `json:"original"`
}

var labels = []struct {
	prefixes []string
	assign   func(*Parsed, string)
}{
	{[]string{"área:", "area:"}, func(p *Parsed, v string) { p.Area = &v }},
	{[]string{"máquina:", "maquina:"}, func(p *Parsed, v string) { p.Maquina = &v }},
	{[]string{"material:"}, func(p *Parsed, v string) { p.Material = &v }},
}

// Parse decodes raw into its tagged fields. Empty input and the
// automatic-process sentinel yield a fully-null result.
func Parse(raw string) Parsed {
	out := Parsed{Notas: []string{}, Original: raw}

	if raw == "" || raw == SentinelAutomatic {
		return out
	}

	for _, segment := range strings.Split(raw, " | ") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		if !matchLabel(&out, segment) {
			out.Notas = append(out.Notas, segment)
		}
	}

	return out
}

func matchLabel(p *Parsed, segment string) bool {
	lower := strings.ToLower(segment)
	for _, l := range labels {
		for _, prefix := range l.prefixes {
			if strings.HasPrefix(lower, prefix) {
				value := strings.TrimSpace(segment[len(prefix):])
				if value != "" {
					l.assign(p, value)
				}
				return true
			}
		}
	}
	return false
}
