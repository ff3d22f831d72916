// Package avatar turns stored instructor avatar object keys into URLs clients can fetch.
// Uploading is handled outside this service; only the object key is persisted.
package avatar

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Resolver maps an object key to a fetchable URL.
type Resolver interface {
	URL(ctx context.Context, key string) (string, error)
}

// Resolve returns nil for a nil or blank key, otherwise the resolved URL.
func Resolve(ctx context.Context, r Resolver, key *string) (*string, error) {
	if r == nil || key == nil || strings.TrimSpace(*key) == "" {
		return nil, nil
	}
	u, err := r.URL(ctx, *key)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// StaticResolver joins keys onto a public base URL, e.g. a CDN or public bucket.
type StaticResolver struct {
	base string
}

// NewStaticResolver validates baseURL and returns a resolver for it.
func NewStaticResolver(baseURL string) (*StaticResolver, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid avatar base url %q", baseURL)
	}
	return &StaticResolver{base: strings.TrimRight(baseURL, "/")}, nil
}

// URL implements Resolver.
func (s *StaticResolver) URL(_ context.Context, key string) (string, error) {
	return s.base + "/" + strings.TrimLeft(key, "/"), nil
}
