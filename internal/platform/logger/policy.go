package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const redacted = "[REDACTED]"

// Policy decides what happens to a field by its key. Secrets and contact
// details are dropped, identifiers are replaced by a salted hash and free
// clinical text is clipped.
type Policy struct {
	Enabled  bool
	Salt     string
	ClipText int
}

var (
	secretKeys   = []string{"token", "authorization", "password", "secret", "cookie", "api_key", "apikey", "email"}
	hashedKeys   = []string{"patient_id", "session_id"}
	clinicalKeys = []string{"condition", "diagnosis", "finding", "treatment"}
)

func DefaultPolicy() *Policy {
	return &Policy{Enabled: true, ClipText: 48}
}

// PolicyFromEnv reads LOG_REDACTION_ENABLED and LOG_HASH_SALT.
func PolicyFromEnv(getenv func(string) string) *Policy {
	p := DefaultPolicy()
	switch strings.ToLower(strings.TrimSpace(getenv("LOG_REDACTION_ENABLED"))) {
	case "0", "false", "no", "off":
		p.Enabled = false
	}
	p.Salt = strings.TrimSpace(getenv("LOG_HASH_SALT"))
	return p
}

// Apply returns a scrubbed copy of a key/value list. A trailing key without
// a value is passed through for zap to report.
func (p *Policy) Apply(kv []interface{}) []interface{} {
	if p == nil || !p.Enabled || len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, len(kv))
	copy(out, kv)
	for i := 0; i+1 < len(out); i += 2 {
		out[i+1] = p.value(normKey(out[i]), out[i+1])
	}
	return out
}

func (p *Policy) value(key string, v interface{}) interface{} {
	switch {
	case key == "":
		return v
	case matches(key, secretKeys):
		return redacted
	case matches(key, hashedKeys):
		return p.hash(v)
	case matches(key, clinicalKeys):
		return p.clip(v)
	}
	if m, ok := v.(map[string]interface{}); ok {
		out := make(map[string]interface{}, len(m))
		for k, mv := range m {
			out[k] = p.value(normKey(k), mv)
		}
		return out
	}
	return v
}

func (p *Policy) hash(v interface{}) interface{} {
	raw := text(v)
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(p.Salt + raw))
	return "hash:" + hex.EncodeToString(sum[:])[:12]
}

func (p *Policy) clip(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok || p.ClipText <= 0 {
		return v
	}
	r := []rune(s)
	if len(r) <= p.ClipText {
		return s
	}
	return string(r[:p.ClipText]) + "..."
}

func matches(key string, frags []string) bool {
	for _, f := range frags {
		if strings.Contains(key, f) {
			return true
		}
	}
	return false
}

func normKey(k interface{}) string {
	return strings.ToLower(strings.TrimSpace(text(k)))
}

func text(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
