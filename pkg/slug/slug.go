// Package slug genera slugs únicos y estables para organizaciones.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make normaliza un nombre a slug: NFD + eliminación de diacríticos, minúsculas,
// y guiones en lugar de cualquier secuencia no alfanumérica.
// "Agencia Créativa S.A.S" -> "agencia-creativa-s-a-s".
func Make(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, name)
	if err != nil {
		plain = name
	}
	plain = strings.ToLower(plain)

	var b strings.Builder
	lastDash := true // evita guion inicial
	for _, r := range plain {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
