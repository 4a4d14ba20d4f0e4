package instructions

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/text/language"

	"github.com/azybler/map_instructions/pkg/logger"
	"github.com/azybler/map_instructions/pkg/phrase"
)

// Registry keeps one Instructor per resolved locale, loading dictionaries
// from a Catalog on first use.
type Registry struct {
	catalog *phrase.Catalog

	mu    sync.RWMutex
	byTag map[language.Tag]*Instructor
}

// NewRegistry returns an empty registry backed by c.
func NewRegistry(c *phrase.Catalog) *Registry {
	return &Registry{
		catalog: c,
		byTag:   make(map[language.Tag]*Instructor),
	}
}

// Catalog returns the catalog the registry loads from.
func (r *Registry) Catalog() *phrase.Catalog {
	return r.catalog
}

// Get returns the Instructor for the locale best matching the request,
// loading its dictionary if needed.
func (r *Registry) Get(locale string) (*Instructor, error) {
	tag, err := r.catalog.Match(locale)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", phrase.ErrMissingResource, err)
	}

	r.mu.RLock()
	in := r.byTag[tag]
	r.mu.RUnlock()
	if in != nil {
		return in, nil
	}

	d, err := r.catalog.Load(tag.String())
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if in := r.byTag[tag]; in != nil {
		return in, nil
	}
	in = NewInstructor(d)
	r.byTag[tag] = in
	logger.Info("Loaded dictionary", "locale", tag.String(), "types", d.Stats().Types)
	return in, nil
}

// Loaded returns the locales with a loaded Instructor, sorted.
func (r *Registry) Loaded() []language.Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]language.Tag, 0, len(r.byTag))
	for t := range r.byTag {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].String() < tags[j].String() })
	return tags
}

// ReloadAll re-reads the dictionary of every loaded locale and swaps it in.
// A locale whose dictionary fails to load keeps its previous one.
func (r *Registry) ReloadAll() error {
	var errs []error
	for _, tag := range r.Loaded() {
		d, err := r.catalog.Load(tag.String())
		if err != nil {
			logger.Warning("Dictionary reload failed, keeping previous", "locale", tag.String(), "error", err)
			errs = append(errs, err)
			continue
		}
		r.mu.RLock()
		in := r.byTag[tag]
		r.mu.RUnlock()
		in.Swap(d)
		logger.Info("Reloaded dictionary", "locale", tag.String())
	}
	return errors.Join(errs...)
}
