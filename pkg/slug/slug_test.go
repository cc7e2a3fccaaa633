package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/crm-pro/pkg/slug"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Agencia Créativa S.A.S", "agencia-creativa-s-a-s"},
		{"ACME Corp", "acme-corp"},
		{"  Diseño & Código  ", "diseno-codigo"},
		{"ya-es-un-slug", "ya-es-un-slug"},
		{"Números 123", "numeros-123"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, slug.Make(tc.in), "entrada %q", tc.in)
	}
}
