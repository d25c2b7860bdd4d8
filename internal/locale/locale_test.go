package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchIsExact(t *testing.T) {
	assert.True(t, Match("en", "en"))
	assert.False(t, Match("en", "en-US"))
	assert.False(t, Match("en", "EN"))
	assert.False(t, Match("en", "fr"))
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"en":     "en",
		"EN":     "en",
		"en_us":  "en-US",
		" fr-ca": "fr-CA",
		"zh-hant": "zh-Hant",
	}
	for in, want := range cases {
		got, err := Normalize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Normalize("")
	assert.Error(t, err)
	_, err = Normalize("not a tag!")
	assert.Error(t, err)
}
