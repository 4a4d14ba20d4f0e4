package phrase

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales
var embedded embed.FS

// Embedded returns the dictionaries compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		panic("phrase: embedded locales: " + err.Error())
	}
	return sub
}

// DefaultLocale is used when no available locale matches a request.
const DefaultLocale = "en"

// Catalog finds and loads dictionaries from one or more file systems. Later
// sources override earlier ones for the same locale. A Catalog holds no
// parsed state: every Load reads the current files.
type Catalog struct {
	sources  []fs.FS
	fallback language.Tag
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithFS adds a source file system.
func WithFS(fsys fs.FS) CatalogOption {
	return func(c *Catalog) { c.sources = append(c.sources, fsys) }
}

// WithDir adds a directory of dictionary files as a source.
func WithDir(dir string) CatalogOption {
	return WithFS(os.DirFS(dir))
}

// WithFallback sets the fallback locale.
func WithFallback(locale string) CatalogOption {
	return func(c *Catalog) {
		if tag, err := language.Parse(locale); err == nil {
			c.fallback = tag
		}
	}
}

// NewCatalog returns a catalog over the embedded dictionaries plus any
// extra sources.
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{
		sources:  []fs.FS{Embedded()},
		fallback: language.English,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fallback returns the fallback locale.
func (c *Catalog) Fallback() language.Tag {
	return c.fallback
}

type resource struct {
	fsys   fs.FS
	name   string
	format Format
}

// scan lists dictionary files by locale, later sources winning.
func (c *Catalog) scan() (map[language.Tag]resource, error) {
	found := map[language.Tag]resource{}
	for _, fsys := range c.sources {
		entries, err := fs.ReadDir(fsys, ".")
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read dictionary dir: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			format, ok := FormatOf(e.Name())
			if !ok {
				continue
			}
			base := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
			tag, err := language.Parse(base)
			if err != nil {
				continue
			}
			found[tag] = resource{fsys: fsys, name: e.Name(), format: format}
		}
	}
	return found, nil
}

// Locales lists the available locales, sorted by tag.
func (c *Catalog) Locales() ([]language.Tag, error) {
	found, err := c.scan()
	if err != nil {
		return nil, err
	}
	tags := make([]language.Tag, 0, len(found))
	for t := range found {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].String() < tags[j].String() })
	return tags, nil
}

// Match resolves a requested locale (a BCP 47 tag or an Accept-Language
// value) to an available one, or the fallback.
func (c *Catalog) Match(locale string) (language.Tag, error) {
	found, err := c.scan()
	if err != nil {
		return language.Und, err
	}
	return c.match(found, locale), nil
}

func (c *Catalog) match(found map[language.Tag]resource, locale string) language.Tag {
	if locale == "" {
		return c.fallback
	}
	desired, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(desired) == 0 {
		return c.fallback
	}

	// The first supported tag is what the matcher returns on no match.
	supported := []language.Tag{c.fallback}
	for t := range found {
		if t != c.fallback {
			supported = append(supported, t)
		}
	}
	sort.Slice(supported[1:], func(i, j int) bool {
		return supported[i+1].String() < supported[j+1].String()
	})

	_, idx, conf := language.NewMatcher(supported).Match(desired...)
	if conf == language.No {
		return c.fallback
	}
	return supported[idx]
}

// Load resolves locale and returns a freshly parsed dictionary. It never
// returns a cached value, so calling it again after files change is a reload.
func (c *Catalog) Load(locale string) (*Dictionary, error) {
	found, err := c.scan()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingResource, err)
	}
	tag := c.match(found, locale)
	res, ok := found[tag]
	if !ok {
		return nil, fmt.Errorf("%w: no dictionary for %s", ErrMissingResource, tag)
	}
	data, err := fs.ReadFile(res.fsys, res.name)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrMissingResource, res.name, err)
	}
	d, err := Decode(data, res.format, tag)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", res.name, err)
	}
	return d, nil
}

// LoadFile parses a single dictionary file outside any catalog. The locale
// is taken from the file's base name when it parses as a tag.
func LoadFile(filename string) (*Dictionary, error) {
	format, ok := FormatOf(filename)
	if !ok {
		return nil, fmt.Errorf("%w: unrecognised extension %q", ErrMissingResource, filepath.Ext(filename))
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingResource, err)
	}
	base := filepath.Base(filename)
	tag, err := language.Parse(strings.TrimSuffix(base, filepath.Ext(base)))
	if err != nil {
		tag = language.Und
	}
	return Decode(data, format, tag)
}
