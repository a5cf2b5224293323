package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
)

// EncodeIDToken creates an opaque base64 token carrying the last id of a keyset page.
func EncodeIDToken(lastID int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte("id:" + strconv.FormatInt(lastID, 10)))
}

// DecodeIDToken parses a token produced by EncodeIDToken. An empty token decodes to 0 (first page).
func DecodeIDToken(token string) (int64, error) {
	if token == "" {
		return 0, nil
	}
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	raw := string(decodedBytes)
	if len(raw) < 4 || raw[:3] != "id:" {
		return 0, fmt.Errorf("invalid pagination token format (prefix)")
	}
	id, err := strconv.ParseInt(raw[3:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pagination token format (id parse): %w", err)
	}
	return id, nil
}
