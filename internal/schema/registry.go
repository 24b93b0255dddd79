package schema

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"
)

//go:embed schemas/*.json
var embedded embed.FS

// Registry serves parsed schemas and their derived directives by entity key.
// Parsing and derivation happen once, on first construction.
type Registry struct {
	mu         sync.RWMutex
	documents  map[string]Document
	directives map[string][]Directive
	raw        map[string][]byte
}

// NewRegistry loads every embedded schema.
func NewRegistry() (*Registry, error) {
	return newRegistryFromFS(embedded, "schemas")
}

func newRegistryFromFS(fsys fs.FS, dir string) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("schema: read dir: %w", err)
	}
	r := &Registry{
		documents:  make(map[string]Document),
		directives: make(map[string][]Directive),
		raw:        make(map[string][]byte),
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := fs.ReadFile(fsys, dir+"/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("schema: read %s: %w", entry.Name(), err)
		}
		doc, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("schema: %s: %w", entry.Name(), err)
		}
		key := strings.TrimSuffix(entry.Name(), ".json")
		r.documents[key] = doc
		r.directives[key] = doc.Directives()
		r.raw[key] = data
	}
	return r, nil
}

// Keys lists loaded entity keys.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.documents))
	for key := range r.documents {
		keys = append(keys, key)
	}
	return keys
}

// Document returns the parsed schema for an entity key.
func (r *Registry) Document(key string) (Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.documents[key]
	if !ok {
		return Document{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return doc, nil
}

// Directives returns the precomputed rendering directives for an entity key.
func (r *Registry) Directives(key string) ([]Directive, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dirs, ok := r.directives[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return dirs, nil
}

// Raw returns the original schema bytes, served verbatim by the schema
// endpoint.
func (r *Registry) Raw(key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	data, ok := r.raw[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return data, nil
}
