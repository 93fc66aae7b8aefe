package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	allowed := []string{"-a", "-d", "-config"}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "keeps allowed flag with its value",
			args: []string{"-a", "https://api.example", "-x", "1"},
			want: []string{"-a", "https://api.example"},
		},
		{
			name: "keeps equals form intact",
			args: []string{"-config=fieldsync.json", "-x", "1"},
			want: []string{"-config=fieldsync.json"},
		},
		{
			name: "drops everything when nothing is allowed",
			args: []string{"-x", "1", "-y=2", "positional"},
			want: []string{},
		},
		{
			name: "trailing flag without value survives",
			args: []string{"-d"},
			want: []string{"-d"},
		},
		{
			name: "next dash-prefixed token is not consumed as a value",
			args: []string{"-a", "-d", "alt.db"},
			want: []string{"-a", "-d", "alt.db"},
		},
		{
			name: "mixed allowed flags preserve argument order",
			args: []string{"-d", "alt.db", "-v", "-a", "https://api.example"},
			want: []string{"-d", "alt.db", "-a", "https://api.example"},
		},
		{
			name: "repeated flag kept each time",
			args: []string{"-config=one.json", "-config=two.json"},
			want: []string{"-config=one.json", "-config=two.json"},
		},
		{
			name: "empty input gives empty output",
			args: []string{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FilterArgs(tt.args, allowed))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("reads -c", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "session.json"}
		assert.Equal(t, "session.json", JsonConfigFlags())
	})

	t.Run("reads -config", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", "session.json"}
		assert.Equal(t, "session.json", JsonConfigFlags())
	})

	t.Run("returns empty without either flag", func(t *testing.T) {
		os.Args = []string{"testbin", "-a", "https://api.example"}
		assert.Empty(t, JsonConfigFlags())
	})

	t.Run("later flag wins", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "first.json", "-config", "second.json"}
		assert.Equal(t, "second.json", JsonConfigFlags())
	})
}
