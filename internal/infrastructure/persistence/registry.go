// Package persistence owns the per-branch SQL Server connection pools and
// the stored-procedure execution surface built on top of them. It is the
// only package permitted to hold long-lived network resources.
package persistence

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/wwi/backend/internal/domain/shared"
	"github.com/wwi/backend/internal/infrastructure/config"
)

// Descriptor holds the immutable connection parameters of one branch
// database. Descriptors are loaded once at startup and looked up by their
// normalized key for the process lifetime.
type Descriptor struct {
	Key            string
	Name           string
	Host           string
	Port           int
	User           string
	Password       string
	Database       string
	MaxOpenConns   int
	MaxIdleConns   int
	IdleTimeout    time.Duration
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
}

// DSN returns the sqlserver connection string with properly escaped values
func (d Descriptor) DSN() string {
	u := url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
	}
	q := u.Query()
	q.Set("database", d.Database)
	q.Set("connection timeout", strconv.Itoa(int(d.ConnectTimeout/time.Second)))
	q.Set("encrypt", "disable")
	u.RawQuery = q.Encode()
	return u.String()
}

// Normalize converts a free-form branch identifier to its registry key:
// lowercase with all whitespace stripped, so "San Jose", "sanjose " and
// "SANJOSE" all resolve to the same branch. The same normalization applies
// wherever a branch identifier is accepted (header, query parameter, login
// body).
func Normalize(sucursal string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, sucursal)
}

// Registry is the static table of known branches, keyed by normalized key
type Registry struct {
	branches map[string]Descriptor
	keys     []string
}

// NewRegistry builds a registry from the configured branch table
func NewRegistry(branches map[string]config.BranchConfig) *Registry {
	r := &Registry{branches: make(map[string]Descriptor, len(branches))}
	for key, b := range branches {
		key = Normalize(key)
		r.branches[key] = Descriptor{
			Key:            key,
			Name:           b.Name,
			Host:           b.Host,
			Port:           b.Port,
			User:           b.User,
			Password:       b.Password,
			Database:       b.Database,
			MaxOpenConns:   b.MaxOpenConns,
			MaxIdleConns:   b.MaxIdleConns,
			IdleTimeout:    b.IdleTimeout,
			ConnectTimeout: b.ConnectTimeout,
			RequestTimeout: b.RequestTimeout,
		}
		r.keys = append(r.keys, key)
	}
	sort.Strings(r.keys)
	return r
}

// Keys returns the known branch keys in sorted order. The slice is the
// caller's to mutate.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Has reports whether the normalized key is a known branch
func (r *Registry) Has(key string) bool {
	_, ok := r.branches[Normalize(key)]
	return ok
}

// Lookup resolves a branch identifier to its descriptor. The identifier is
// normalized before the lookup; unknown identifiers fail with an
// UNKNOWN_TENANT error listing the valid options.
func (r *Registry) Lookup(sucursal string) (Descriptor, error) {
	key := Normalize(sucursal)
	desc, ok := r.branches[key]
	if !ok {
		return Descriptor{}, shared.NewDomainError(shared.CodeUnknownTenant,
			fmt.Sprintf("Sucursal inválida: %s. Opciones válidas: %s", sucursal, strings.Join(r.keys, ", ")))
	}
	return desc, nil
}
