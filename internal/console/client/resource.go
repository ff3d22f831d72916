package client

import (
	"context"
	"fmt"
	"net/http"
)

// Resource is the typed gateway for one collection endpoint: T is the entity,
// C the create payload and P the patch payload.
type Resource[T, C, P any] struct {
	c    *Client
	path string
}

// NewResource binds a collection path such as "/subjects".
func NewResource[T, C, P any](c *Client, path string) *Resource[T, C, P] {
	return &Resource[T, C, P]{c: c, path: path}
}

// List fetches every live entity.
func (r *Resource[T, C, P]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.c.do(ctx, http.MethodGet, r.path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one entity.
func (r *Resource[T, C, P]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodGet, r.itemPath(id), nil, &out)
	return out, err
}

// Create submits a new entity and returns it with its assigned id.
func (r *Resource[T, C, P]) Create(ctx context.Context, body C) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPost, r.path, body, &out)
	return out, err
}

// Update applies a partial update.
func (r *Resource[T, C, P]) Update(ctx context.Context, id int64, patch P) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPatch, r.itemPath(id), patch, &out)
	return out, err
}

// Delete removes an entity.
func (r *Resource[T, C, P]) Delete(ctx context.Context, id int64) error {
	return r.c.do(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
}

func (r *Resource[T, C, P]) itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", r.path, id)
}
