package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveGenre(t *testing.T) {
	tests := []struct {
		arg    string
		wantID int
		name   string
	}{
		{"18", 18, "Drama"},
		{"99999", 99999, ""},
		{"horror", 27, "Horror"},
		{"  Western ", 37, "Western"},
		{"sci fi", 878, "Science Fiction"},
		{"docu", 99, "Documentary"},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			g, err := ResolveGenre(tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, g.ID)
			assert.Equal(t, tt.name, g.Name)
		})
	}
}

func TestResolveGenreRejects(t *testing.T) {
	for _, arg := range []string{"", "0", "-3", "zzzz"} {
		_, err := ResolveGenre(arg)
		assert.Error(t, err, arg)
	}
}
