package eventquery

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/noah-isme/event-tracker-api/internal/models"
	appErrors "github.com/noah-isme/event-tracker-api/pkg/errors"
)

// Cursor marks the last item returned on a page.
type Cursor struct {
	DueDate string `json:"dueDate"`
	ID      string `json:"id"`
}

// CursorCodec converts cursors to URL-safe tokens and back. With a secret the
// token carries an HMAC-SHA256 signature and unsigned or altered tokens are rejected.
type CursorCodec struct {
	secret []byte
}

// NewCursorCodec constructs a codec. An empty secret produces unsigned tokens.
func NewCursorCodec(secret string) *CursorCodec {
	return &CursorCodec{secret: []byte(secret)}
}

// Signed reports whether tokens carry a signature.
func (c *CursorCodec) Signed() bool {
	return c != nil && len(c.secret) > 0
}

// Encode produces the token pointing at event.
func (c *CursorCodec) Encode(event models.Event) string {
	raw, _ := json.Marshal(Cursor{DueDate: event.DueDate, ID: event.ID})
	payload := base64.RawURLEncoding.EncodeToString(raw)
	if !c.Signed() {
		return payload
	}
	return payload + "." + c.sign(payload)
}

// Decode parses a token. Blank input means "no cursor" and yields nil.
// Anything else must decode completely or the call fails with ErrInvalidCursor.
func (c *CursorCodec) Decode(token string) (*Cursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}

	payload := token
	if c.Signed() {
		var signature string
		var ok bool
		payload, signature, ok = strings.Cut(token, ".")
		if !ok || !hmac.Equal([]byte(signature), []byte(c.sign(payload))) {
			return nil, invalidCursor()
		}
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, invalidCursor()
	}

	var cursor Cursor
	if err := json.Unmarshal(raw, &cursor); err != nil {
		return nil, invalidCursor()
	}
	if !ValidDate(cursor.DueDate) || cursor.ID == "" {
		return nil, invalidCursor()
	}
	return &cursor, nil
}

func (c *CursorCodec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	_, _ = mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func invalidCursor() error {
	return appErrors.Clone(appErrors.ErrInvalidCursor, "")
}
