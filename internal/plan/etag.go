package plan

import (
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
)

// Fingerprint derives a strong entity tag from stored bytes:
// "<length in hex>-<base64url sha256>", quoted.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return `"` + strconv.FormatInt(int64(len(data)), 16) + "-" + base64.RawURLEncoding.EncodeToString(sum[:]) + `"`
}

// MatchesIfNoneMatch reports whether an If-None-Match header value selects etag.
// The trimmed header must equal etag exactly: "*", tag lists and weak tags
// (W/"...") never match.
func MatchesIfNoneMatch(header, etag string) bool {
	header = strings.TrimSpace(header)
	return header != "" && header == etag
}
