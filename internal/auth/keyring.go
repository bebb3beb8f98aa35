package auth

import "crypto/subtle"

// Keyring holds the single shared secret that authorizes mutating calls.
type Keyring struct {
	secret string
}

func NewKeyring(secret string) *Keyring {
	return &Keyring{secret: secret}
}

// Verify reports whether the presented credential exactly equals the
// configured secret. Missing or empty credentials never match, and a
// service configured without a secret rejects everything. The comparison
// is constant-time.
func (k *Keyring) Verify(presented string) bool {
	if k == nil || k.secret == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(k.secret)) == 1
}
