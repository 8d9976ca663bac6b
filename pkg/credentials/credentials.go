// Package credentials resolves Slack bot tokens by identifier, scoped to the
// workspace they belong to.
package credentials

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

const redacted = "[redacted]"

// Secret is a bearer token. It never prints its value.
type Secret string

func (s Secret) String() string {
	return redacted
}

// GoString keeps %#v from leaking the value too.
func (s Secret) GoString() string {
	return redacted
}

// Reveal returns the raw token for the Authorization header.
func (s Secret) Reveal() string {
	return string(s)
}

// Store looks up a secret by id. A missing secret is reported as ok == false
// with a nil error.
type Store interface {
	Lookup(ctx context.Context, id, scope string) (Secret, bool, error)
}

// ScopeURL is the scope a Slack workspace's credentials are registered under.
func ScopeURL(workspace string) string {
	return "https://" + workspace + ".slack.com"
}

// NotFound is returned when the configured id resolves to nothing.
type NotFound struct {
	ID    string
	Scope string
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("credentials %q not found for %s", e.ID, e.Scope)
}

// Static is an in-memory store keyed by id; scope is ignored.
type Static map[string]Secret

// Lookup implements Store.
func (s Static) Lookup(_ context.Context, id, _ string) (Secret, bool, error) {
	secret, ok := s[id]
	return secret, ok, nil
}

// EnvStore reads secrets from the environment as <Prefix>_<ID>, where the id
// is upper-cased and anything that is not a letter or digit becomes "_".
type EnvStore struct {
	Prefix string
}

// Lookup implements Store.
func (e EnvStore) Lookup(_ context.Context, id, _ string) (Secret, bool, error) {
	value, ok := os.LookupEnv(e.VarName(id))
	if !ok || value == "" {
		return "", false, nil
	}
	return Secret(value), true, nil
}

// VarName returns the environment variable consulted for id.
func (e EnvStore) VarName(id string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToUpper(r)
		}
		return '_'
	}, id)
	if e.Prefix == "" {
		return name
	}
	return e.Prefix + "_" + name
}

// fileEntry is one record of a credentials file
type fileEntry struct {
	ID     string `yaml:"id"`
	Scope  string `yaml:"scope"` // empty matches every scope
	Secret string `yaml:"secret"`
}

// FileStore holds the records of a YAML credentials file:
//
//	credentials:
//	  - id: slack-bot
//	    scope: https://acme.slack.com
//	    secret: xoxb-...
type FileStore struct {
	entries []fileEntry
}

// LoadFile reads a credentials file.
func LoadFile(path string) (*FileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading credentials file: %w", err)
	}

	var doc struct {
		Credentials []fileEntry `yaml:"credentials"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing credentials file %s: %w", path, err)
	}
	return &FileStore{entries: doc.Credentials}, nil
}

// Lookup implements Store. An entry registered for the exact scope wins over
// an unscoped one.
func (f *FileStore) Lookup(_ context.Context, id, scope string) (Secret, bool, error) {
	var fallback *fileEntry
	for i := range f.entries {
		e := &f.entries[i]
		if e.ID != id || e.Secret == "" {
			continue
		}
		if e.Scope == scope {
			return Secret(e.Secret), true, nil
		}
		if e.Scope == "" && fallback == nil {
			fallback = e
		}
	}
	if fallback != nil {
		return Secret(fallback.Secret), true, nil
	}
	return "", false, nil
}

// Chain asks each store in turn and returns the first hit.
type Chain []Store

// Lookup implements Store.
func (c Chain) Lookup(ctx context.Context, id, scope string) (Secret, bool, error) {
	for _, s := range c {
		secret, ok, err := s.Lookup(ctx, id, scope)
		if err != nil {
			return "", false, err
		}
		if ok {
			return secret, true, nil
		}
	}
	return "", false, nil
}

// Resolve looks id up and turns a miss into *NotFound.
func Resolve(ctx context.Context, s Store, id, scope string) (Secret, error) {
	secret, ok, err := s.Lookup(ctx, id, scope)
	if err != nil {
		return "", fmt.Errorf("looking up credentials %q: %w", id, err)
	}
	if !ok {
		return "", &NotFound{ID: id, Scope: scope}
	}
	return secret, nil
}
