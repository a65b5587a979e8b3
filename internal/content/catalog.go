// Package content holds the static tables the activities are built from:
// course sections and activity configurations keyed by id.
package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/playdeck/internal/activity"
)

// Catalog is an immutable set of sections and activity configurations.
type Catalog struct {
	sections   []Section
	bySection  map[string]int
	activities map[string]*activity.Config
	sources    map[string]string
	files      []string
	version    string
	warnings   []Warning
}

// Options selects the files of a content directory.
type Options struct {
	Include []string
	Exclude []string
}

// LoadDir reads a content directory from disk.
func LoadDir(dir string, opts Options) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content dir: %s is not a directory", dir)
	}
	return Load(os.DirFS(dir), opts)
}

// Load reads every matching content file of fsys. Files that fail to
// parse abort loading; structural problems are kept as warnings.
func Load(fsys fs.FS, opts Options) (*Catalog, error) {
	files, err := Walk(fsys, opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}
	b := newBuilder()
	for _, f := range files {
		parsed, err := parse(f.RelPath, f.Data)
		if err != nil {
			return nil, err
		}
		b.add(f.RelPath, parsed)
	}
	c := b.catalog()
	c.version = Fingerprint(files)
	return c, nil
}

// New builds a catalog from already decoded files.
func New(files ...File) *Catalog {
	b := newBuilder()
	for i, f := range files {
		b.add(fmt.Sprintf("file-%d", i), f)
	}
	return b.catalog()
}

func parse(name string, data []byte) (File, error) {
	var f File
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return File{}, fmt.Errorf("parsing %s: %w", name, err)
		}
	default:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return File{}, fmt.Errorf("parsing %s: %w", name, err)
		}
	}
	return f, nil
}

type builder struct {
	c *Catalog
}

func newBuilder() *builder {
	return &builder{c: &Catalog{
		bySection:  make(map[string]int),
		activities: make(map[string]*activity.Config),
		sources:    make(map[string]string),
	}}
}

func (b *builder) warn(w Warning) { b.c.warnings = append(b.c.warnings, w) }

func (b *builder) add(source string, f File) {
	c := b.c
	c.files = append(c.files, source)
	for _, s := range f.Sections {
		if s.ID == "" {
			b.warn(Warning{Source: source, Message: "section without id skipped"})
			continue
		}
		if _, dup := c.bySection[s.ID]; dup {
			b.warn(Warning{Source: source, Section: s.ID, Message: "duplicate section id, later definition ignored"})
			continue
		}
		c.bySection[s.ID] = len(c.sections)
		c.sections = append(c.sections, s)
	}
	for _, a := range f.Activities {
		if a == nil {
			continue
		}
		if a.ID == "" {
			b.warn(Warning{Source: source, Message: "activity without id skipped"})
			continue
		}
		if prev, dup := c.sources[a.ID]; dup {
			b.warn(Warning{Source: source, Activity: a.ID, Message: "duplicate activity id, first defined in " + prev})
			continue
		}
		c.activities[a.ID] = a
		c.sources[a.ID] = source
	}
}

func (b *builder) catalog() *Catalog { return b.c }

// Activity returns the configuration for id.
func (c *Catalog) Activity(id string) (*activity.Config, bool) {
	a, ok := c.activities[id]
	return a, ok
}

// SectionActivities returns the activity ids of a section in order.
func (c *Catalog) SectionActivities(id string) ([]string, bool) {
	s, ok := c.Section(id)
	if !ok {
		return nil, false
	}
	return append([]string(nil), s.Activities...), true
}

// Section returns the section with id.
func (c *Catalog) Section(id string) (Section, bool) {
	i, ok := c.bySection[id]
	if !ok {
		return Section{}, false
	}
	return c.sections[i], true
}

// Sections returns sections in declaration order.
func (c *Catalog) Sections() []Section {
	return append([]Section(nil), c.sections...)
}

// ActivityIDs returns every activity id in sorted order.
func (c *Catalog) ActivityIDs() []string {
	ids := make([]string, 0, len(c.activities))
	for id := range c.activities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SectionOf returns the first section listing activityID.
func (c *Catalog) SectionOf(activityID string) (Section, bool) {
	for _, s := range c.sections {
		for _, id := range s.Activities {
			if id == activityID {
				return s, true
			}
		}
	}
	return Section{}, false
}

// Files lists the sources the catalog was built from.
func (c *Catalog) Files() []string { return append([]string(nil), c.files...) }

// Version fingerprints the content files; empty for catalogs built in
// memory.
func (c *Catalog) Version() string { return c.version }
