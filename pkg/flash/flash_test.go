package flash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	msgs := []Message{
		{Category: Success, Text: "Type “Séminaire” ajouté."},
		{Category: Info, Text: "Vous êtes déconnecté."},
	}
	value, err := Encode(msgs)
	require.NoError(t, err)
	assert.NotContains(t, value, ";")

	assert.Equal(t, msgs, Decode(value))
}

func TestDecodeGarbage(t *testing.T) {
	assert.Nil(t, Decode(""))
	assert.Nil(t, Decode("%%%"))
	assert.Nil(t, Decode("bm90LWpzb24"))
}

func TestOutcome(t *testing.T) {
	o := New("/lieux_de_formation", Warning, "Le nom ne peut être vide!")
	assert.False(t, o.IsZero())
	assert.Equal(t, Warning, o.Message.Category)
	assert.True(t, Outcome{}.IsZero())
}
