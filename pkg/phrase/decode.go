package phrase

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Format is the on-disk encoding of a dictionary file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// extensions lists recognised file extensions. JSON is read by the YAML
// decoder.
var extensions = map[string]Format{
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".json": FormatYAML,
	".toml": FormatTOML,
}

// FormatOf returns the format for a file name, or false if the extension is
// not a dictionary extension.
func FormatOf(name string) (Format, bool) {
	f, ok := extensions[strings.ToLower(path.Ext(name))]
	return f, ok
}

// reserved keys inside the version section that are not maneuver types.
const (
	keyConstants = "constants"
	keyModes     = "modes"
	keyPhrase    = "phrase"
)

// Decode parses and validates a dictionary. Any structural problem is
// reported as ErrMissingResource; a missing "default" entry as
// ErrMissingTemplate.
func Decode(data []byte, format Format, tag language.Tag) (*Dictionary, error) {
	raw := map[string]any{}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	case FormatTOML:
		err = toml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrMissingResource, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrMissingResource, format, err)
	}
	return build(raw, tag)
}

func build(raw map[string]any, tag language.Tag) (*Dictionary, error) {
	d := &Dictionary{
		Locale:   tag,
		Version:  FormatVersion,
		Modes:    map[string]TemplateSet{},
		Steps:    map[string]ModifierTable{},
		Circular: map[string]CircularTable{},
	}

	if m, ok := raw["meta"]; ok {
		meta, err := asMap(m, "meta")
		if err != nil {
			return nil, err
		}
		if v, ok := meta["capitalizeFirstLetter"].(bool); ok {
			d.Meta.CapitalizeFirstLetter = v
		}
	}

	section, ok := raw[FormatVersion]
	if !ok {
		return nil, fmt.Errorf("%w: no %q section", ErrMissingResource, FormatVersion)
	}
	body, err := asMap(section, FormatVersion)
	if err != nil {
		return nil, err
	}

	for _, key := range sortedKeys(body) {
		value := body[key]
		p := FormatVersion + "/" + key
		switch {
		case key == keyPhrase:
			if d.Phrases, err = asStrings(value, p); err != nil {
				return nil, err
			}
		case key == keyConstants:
			if d.Constants, err = buildConstants(value, p); err != nil {
				return nil, err
			}
		case key == keyModes:
			modes, err := asMap(value, p)
			if err != nil {
				return nil, err
			}
			for mode, v := range modes {
				set, err := buildSet(v, p+"/"+mode)
				if err != nil {
					return nil, err
				}
				d.Modes[mode] = set
			}
		case key == "rotary" || key == "roundabout":
			table, err := buildCircular(value, p)
			if err != nil {
				return nil, err
			}
			d.Circular[key] = table
		default:
			table, err := buildModifierTable(value, p)
			if err != nil {
				return nil, err
			}
			d.Steps[key] = table
		}
	}

	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// validate checks the entries the cascade falls back to unconditionally.
func (d *Dictionary) validate() error {
	if _, ok := d.Steps["turn"]; !ok {
		return fmt.Errorf("%w: %s/turn", ErrMissingTemplate, FormatVersion)
	}
	if lanes, ok := d.Steps["use lane"]; ok {
		if _, ok := lanes[NoLanes]; !ok {
			return fmt.Errorf("%w: %s/use lane/%s", ErrMissingTemplate, FormatVersion, NoLanes)
		}
	}
	return nil
}

func buildConstants(v any, p string) (Constants, error) {
	var c Constants
	m, err := asMap(v, p)
	if err != nil {
		return c, err
	}
	fields := []struct {
		key string
		dst *map[string]string
	}{
		{"ordinalize", &c.Ordinalize},
		{"direction", &c.Direction},
		{"modifier", &c.Modifier},
		{"lanes", &c.Lanes},
	}
	for _, f := range fields {
		sub, ok := m[f.key]
		if !ok {
			*f.dst = map[string]string{}
			continue
		}
		strs, err := asStrings(sub, p+"/"+f.key)
		if err != nil {
			return c, err
		}
		*f.dst = strs
	}
	return c, nil
}

func buildModifierTable(v any, p string) (ModifierTable, error) {
	m, err := asMap(v, p)
	if err != nil {
		return nil, err
	}
	table := make(ModifierTable, len(m))
	for modifier, sv := range m {
		set, err := buildSet(sv, p+"/"+modifier)
		if err != nil {
			return nil, err
		}
		table[modifier] = set
	}
	if _, ok := table[Default]; !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrMissingTemplate, p, Default)
	}
	return table, nil
}

func buildCircular(v any, p string) (CircularTable, error) {
	m, err := asMap(v, p)
	if err != nil {
		return nil, err
	}
	inner, ok := m[Default]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrMissingTemplate, p, Default)
	}
	p += "/" + Default
	im, err := asMap(inner, p)
	if err != nil {
		return nil, err
	}
	table := make(CircularTable, len(im))
	for disc, sv := range im {
		set, err := buildSet(sv, p+"/"+disc)
		if err != nil {
			return nil, err
		}
		table[disc] = set
	}
	if _, ok := table[Default]; !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrMissingTemplate, p, Default)
	}
	return table, nil
}

func buildSet(v any, p string) (TemplateSet, error) {
	strs, err := asStrings(v, p)
	if err != nil {
		return nil, err
	}
	if _, ok := strs[Default]; !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrMissingTemplate, p, Default)
	}
	return TemplateSet(strs), nil
}

func asMap(v any, p string) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		// YAML gives non-string keys, such as ordinalize: {1: first}, this type.
		out := make(map[string]any, len(m))
		for k, sv := range m {
			out[fmt.Sprint(k)] = sv
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s is %T, want a table", ErrMissingResource, p, v)
}

func asStrings(v any, p string) (map[string]string, error) {
	m, err := asMap(v, p)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(m))
	for k, sv := range m {
		s, ok := sv.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s/%s is %T, want a string", ErrMissingResource, p, k, sv)
		}
		out[k] = s
	}
	return out, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
