package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/builtnorth/schemagraph/errors"
)

// maxKeyLength is the maximum length of a namespaced storage key.
const maxKeyLength = 172

// sha1HexLength is the length of a hex-encoded SHA-1 digest.
const sha1HexLength = 40

// Keyspace maps logical cache keys into the namespaced storage keyspace and
// compiles wildcard patterns into matchers shared by the memo layer and the
// backing store.
type Keyspace struct {
	namespace string
}

// NewKeyspace creates a keyspace with the given namespace prefix.
func NewKeyspace(namespace string) (*Keyspace, error) {
	if namespace == "" {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "Keyspace", "NewKeyspace",
			"namespace cannot be empty")
	}
	return &Keyspace{namespace: namespace}, nil
}

// Namespace returns the namespace prefix.
func (k *Keyspace) Namespace() string { return k.namespace }

// Namespaced renders the storage key for a logical key. Keys over the
// length limit are shortened to a stable prefix plus a SHA-1 of the full
// namespaced key; the prefix stays long enough for prefix-based invalidation
// patterns to still find them.
func (k *Keyspace) Namespaced(key string) string {
	full := k.namespace + "_" + key
	if len(full) <= maxKeyLength {
		return full
	}

	sum := sha1.Sum([]byte(full))
	digest := hex.EncodeToString(sum[:])
	prefix := full[:maxKeyLength-sha1HexLength-1]
	return prefix + "_" + digest
}

// NamespacedPattern renders the storage keyspace pattern for a logical glob
// pattern. Patterns are never truncated.
func (k *Keyspace) NamespacedPattern(pattern string) string {
	return k.namespace + "_" + pattern
}

// CompilePattern compiles a glob pattern (with * wildcards) into a regular
// expression equivalent to the SQL LIKE translation a relational backing
// store would use (* -> %). Both the memo layer and the storage
// implementations match with this so invalidation semantics stay identical
// across layers.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	expr := "^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, ".*") + "$"

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.WrapInvalid(err, "Keyspace", "CompilePattern", "pattern compilation")
	}
	return re, nil
}
