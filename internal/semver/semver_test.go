package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "19.1.3", want: "19.1.3"},
		{raw: "PBSPro_13.1.0.160576", want: "13.1.0"},
		{raw: "OpenPBS 23.6.1", want: "23.6.1"},
		{raw: "2021.1", want: "2021.1.0"},
		{raw: "unknown", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := Parse(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestSatisfies(t *testing.T) {
	ok, err := Satisfies("19.1.3", ">= 19.1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Satisfies("PBSPro_13.1.0", ">= 18")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Satisfies("19.1.3", "not a constraint")
	assert.Error(t, err)

	_, err = Satisfies("", ">= 18")
	assert.Error(t, err)
}
