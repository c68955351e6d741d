// Package catalog holds the static reference data: exercises, the alternatives
// adjacency table, workout templates and the training-day rotation.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/liftlog/internal/models"
)

//go:embed data/catalog.yaml
var defaultData []byte

// Exercise is a catalog entry
type Exercise struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Muscles []string `yaml:"muscles"`
	Cues    []string `yaml:"cues"`
}

type document struct {
	Exercises    []Exercise                               `yaml:"exercises"`
	Alternatives map[string][]string                      `yaml:"alternatives"`
	Templates    map[string][]models.ExercisePrescription `yaml:"templates"`
	Rotation     []string                                 `yaml:"rotation"`
}

// Catalog is read-only after construction
type Catalog struct {
	exercises    map[string]Exercise
	order        []string
	alternatives map[string][]string
	templates    map[string][]models.ExercisePrescription
	rotation     []string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog, parsed once
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(defaultData)
	})
	return defaultCatalog, defaultErr
}

// MustDefault is Default for callers that cannot proceed without reference data
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Parse builds a catalog from YAML and validates cross references
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return New(doc.Exercises, doc.Alternatives, doc.Templates, doc.Rotation)
}

// New builds a catalog from already-decoded parts
func New(exercises []Exercise, alternatives map[string][]string, templates map[string][]models.ExercisePrescription, rotation []string) (*Catalog, error) {
	c := &Catalog{
		exercises:    make(map[string]Exercise, len(exercises)),
		alternatives: make(map[string][]string, len(alternatives)),
		templates:    make(map[string][]models.ExercisePrescription, len(templates)),
		rotation:     append([]string(nil), rotation...),
	}

	for _, ex := range exercises {
		if ex.ID == "" {
			return nil, fmt.Errorf("exercise %q has no id", ex.Name)
		}
		if _, dup := c.exercises[ex.ID]; dup {
			return nil, fmt.Errorf("duplicate exercise id %q", ex.ID)
		}
		c.exercises[ex.ID] = ex
		c.order = append(c.order, ex.ID)
	}

	for id, subs := range alternatives {
		c.alternatives[id] = append([]string(nil), subs...)
	}

	for name, prescriptions := range templates {
		for i, p := range prescriptions {
			if _, ok := c.exercises[p.ExerciseID]; !ok {
				return nil, fmt.Errorf("template %q entry %d references unknown exercise %q", name, i, p.ExerciseID)
			}
			if p.Sets < 1 {
				return nil, fmt.Errorf("template %q entry %d has %d sets", name, i, p.Sets)
			}
		}
		c.templates[name] = append([]models.ExercisePrescription(nil), prescriptions...)
	}

	for _, day := range c.rotation {
		if _, ok := c.templates[day]; !ok {
			return nil, fmt.Errorf("rotation day %q has no template", day)
		}
	}

	return c, nil
}

// Exercise looks up a catalog entry
func (c *Catalog) Exercise(id string) (Exercise, bool) {
	ex, ok := c.exercises[id]
	return ex, ok
}

// Has reports whether id is a catalog exercise
func (c *Catalog) Has(id string) bool {
	_, ok := c.exercises[id]
	return ok
}

// Name returns the display name for id, falling back to the id itself
func (c *Catalog) Name(id string) string {
	if ex, ok := c.exercises[id]; ok {
		return ex.Name
	}
	return id
}

// Exercises returns all entries in file order
func (c *Catalog) Exercises() []Exercise {
	out := make([]Exercise, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.exercises[id])
	}
	return out
}

// AdjacencyTable returns a copy of the raw alternatives table
func (c *Catalog) AdjacencyTable() map[string][]string {
	out := make(map[string][]string, len(c.alternatives))
	for id, subs := range c.alternatives {
		out[id] = append([]string(nil), subs...)
	}
	return out
}

// Template returns a copy of the prescriptions for a training-day type
func (c *Catalog) Template(dayType string) ([]models.ExercisePrescription, bool) {
	t, ok := c.templates[dayType]
	if !ok {
		return nil, false
	}
	return append([]models.ExercisePrescription(nil), t...), true
}

// TemplateNames returns the known training-day types, sorted
func (c *Catalog) TemplateNames() []string {
	names := make([]string, 0, len(c.templates))
	for name := range c.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rotation returns the fixed training-day rotation
func (c *Catalog) Rotation() []string {
	return append([]string(nil), c.rotation...)
}
