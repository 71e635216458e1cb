package keyword

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"NavHelper", []string{"nav", "helper"}},
		{"circ_dv", []string{"circ", "dv"}},
		{"pkg.nav.helper.NavHelper.circ_dv", []string{"pkg", "nav", "helper", "nav", "helper", "circ", "dv"}},
		{"HTTPServer", []string{"httpserver"}},
		{"orbit transfer delta-v", []string{"orbit", "transfer", "delta", "v"}},
		{"", nil},
		{"___", nil},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Tokenize(tc.in), "input %q", tc.in)
	}
}
