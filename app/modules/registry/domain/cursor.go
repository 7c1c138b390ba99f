package registrydomain

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// Direction tags which way a cursor token walks relative to its anchor.
type Direction string

const (
	DirectionNone Direction = ""
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

// CursorCodec encodes pagination state as an opaque, tamper-evident token.
// The token is self-describing by anchor id, never by offset, so issued
// tokens stay valid while new rows are inserted concurrently.
type CursorCodec struct {
	secret []byte
}

// NewCursorCodec creates a codec signing tokens with the given secret.
func NewCursorCodec(secret string) *CursorCodec {
	return &CursorCodec{secret: []byte(secret)}
}

// Encode produces a token carrying (direction, anchor id).
func (c *CursorCodec) Encode(direction Direction, id int64) string {
	payload := fmt.Sprintf("%s:%d", direction, id)
	return base64.RawURLEncoding.EncodeToString([]byte(payload + ":" + c.sign(payload)))
}

// Decode reverses Encode. It returns ErrInvalidCursor for anything that was
// not produced by Encode with the same secret.
func (c *CursorCodec) Decode(token string) (Direction, int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return DirectionNone, 0, ErrInvalidCursor
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 3 {
		return DirectionNone, 0, ErrInvalidCursor
	}

	payload := parts[0] + ":" + parts[1]
	if !hmac.Equal([]byte(parts[2]), []byte(c.sign(payload))) {
		return DirectionNone, 0, ErrInvalidCursor
	}

	direction := Direction(parts[0])
	if direction != DirectionNext && direction != DirectionPrev {
		return DirectionNone, 0, ErrInvalidCursor
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return DirectionNone, 0, ErrInvalidCursor
	}

	return direction, id, nil
}

func (c *CursorCodec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)[:12])
}
