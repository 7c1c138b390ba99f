package registrydomain

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorCodec_RoundTrip(t *testing.T) {
	codec := NewCursorCodec("test-secret")

	tests := []struct {
		name      string
		direction Direction
		id        int64
	}{
		{name: "next with small id", direction: DirectionNext, id: 1},
		{name: "prev with small id", direction: DirectionPrev, id: 42},
		{name: "next with large id", direction: DirectionNext, id: 9223372036854775807},
		{name: "prev with zero id", direction: DirectionPrev, id: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := codec.Encode(tt.direction, tt.id)

			direction, id, err := codec.Decode(token)
			require.NoError(t, err)
			assert.Equal(t, tt.direction, direction)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestCursorCodec_Decode_Malformed(t *testing.T) {
	codec := NewCursorCodec("test-secret")

	tests := []struct {
		name  string
		token string
	}{
		{name: "not base64", token: "!!!not-base64!!!"},
		{name: "empty", token: ""},
		{name: "missing signature", token: base64.RawURLEncoding.EncodeToString([]byte("next:5"))},
		{name: "unknown direction", token: base64.RawURLEncoding.EncodeToString([]byte("sideways:5:abc"))},
		{name: "non-numeric id", token: base64.RawURLEncoding.EncodeToString([]byte("next:five:abc"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := codec.Decode(tt.token)
			assert.ErrorIs(t, err, ErrInvalidCursor)
		})
	}
}

func TestCursorCodec_Decode_Tampered(t *testing.T) {
	codec := NewCursorCodec("test-secret")
	token := codec.Encode(DirectionNext, 100)

	raw, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)

	// Rewrite the anchor id without re-signing.
	tampered := []byte(string(raw))
	tampered[5] = '9'

	_, _, err = codec.Decode(base64.RawURLEncoding.EncodeToString(tampered))
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestCursorCodec_Decode_WrongSecret(t *testing.T) {
	token := NewCursorCodec("secret-a").Encode(DirectionPrev, 7)

	_, _, err := NewCursorCodec("secret-b").Decode(token)
	assert.ErrorIs(t, err, ErrInvalidCursor)
}
