package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// Claims is the session token payload. Subject carries the account number;
// AccountName and Enabled mirror the profile data minted at login.
type Claims struct {
	Issuer      string `json:"iss,omitempty"`
	Subject     string `json:"sub,omitempty"`
	AccountName string `json:"account_name,omitempty"`
	Enabled     bool   `json:"enabled,omitempty"`
	ExpiresAt   int64  `json:"exp,omitempty"`
	NotBefore   int64  `json:"nbf,omitempty"`
	IssuedAt    int64  `json:"iat,omitempty"`
	ID          string `json:"jti,omitempty"`
}

func base64URLEncode(b []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "=")
}

func base64URLDecode(s string) ([]byte, error) {
	// JWT uses base64url without padding
	if m := len(s) % 4; m != 0 {
		s += strings.Repeat("=", 4-m)
	}
	return base64.URLEncoding.DecodeString(s)
}

// SignHS256 serializes claims into a signed JWT.
func SignHS256(claims Claims, secret []byte) (string, error) {
	header := base64URLEncode([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payloadB, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	payload := base64URLEncode(payloadB)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(header))
	mac.Write([]byte{'.'})
	mac.Write([]byte(payload))
	sig := base64URLEncode(mac.Sum(nil))
	return header + "." + payload + "." + sig, nil
}

// VerifyHS256 checks a token's structure and signature and returns its claims.
// Time-based claims are the caller's to validate.
func VerifyHS256(token string, secret []byte) (Claims, error) {
	var empty Claims
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return empty, errors.New("invalid token format")
	}
	headerB, err := base64URLDecode(parts[0])
	if err != nil {
		return empty, errors.New("bad header b64")
	}
	payloadB, err := base64URLDecode(parts[1])
	if err != nil {
		return empty, errors.New("bad payload b64")
	}
	sigB, err := base64URLDecode(parts[2])
	if err != nil {
		return empty, errors.New("bad signature b64")
	}

	// Expect alg HS256
	var hdr struct{ Alg, Typ string }
	if err := json.Unmarshal(headerB, &hdr); err != nil {
		return empty, errors.New("bad header json")
	}
	if !strings.EqualFold(hdr.Alg, "HS256") {
		return empty, errors.New("unsupported alg")
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(parts[0]))
	mac.Write([]byte{'.'})
	mac.Write([]byte(parts[1]))
	if !hmac.Equal(sigB, mac.Sum(nil)) {
		return empty, errors.New("invalid signature")
	}

	var claims Claims
	if err := json.Unmarshal(payloadB, &claims); err != nil {
		return empty, errors.New("bad claims json")
	}
	return claims, nil
}
