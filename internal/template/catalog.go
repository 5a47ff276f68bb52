// Package template expands predefined routine bundles and browsed activities
// into task inputs.
package template

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"daily-routine/internal/model"
)

//go:embed catalog.toml
var catalogData []byte

// Activity is the canonical definition of a routine activity.
type Activity struct {
	Name     string         `toml:"name" json:"name"`
	Icon     string         `toml:"icon" json:"icon"`
	Time     string         `toml:"time" json:"time"`
	Duration int            `toml:"duration" json:"duration"`
	Category model.Category `toml:"category" json:"category"`
}

// Theme groups activities for browsing.
type Theme struct {
	Name       string     `toml:"name" json:"name"`
	Activities []Activity `toml:"activities" json:"activities"`
}

// Template is a named, ordered bundle of activity names.
type Template struct {
	ID          string   `toml:"id" json:"id"`
	Name        string   `toml:"name" json:"name"`
	Description string   `toml:"description" json:"description"`
	Icon        string   `toml:"icon" json:"icon"`
	Activities  []string `toml:"activities" json:"activities"`
}

type Catalog struct {
	Themes    []Theme    `toml:"themes" json:"themes"`
	Templates []Template `toml:"templates" json:"templates"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(catalogData)
	})
	return defaultCatalog, defaultErr
}

// Parse decodes a TOML catalog and checks every activity.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for _, theme := range c.Themes {
		for _, a := range theme.Activities {
			if !model.IsClock(a.Time) {
				return nil, fmt.Errorf("activity %q: invalid time %q", a.Name, a.Time)
			}
		}
	}
	return &c, nil
}

// Lookup finds an activity by exact name, scanning themes in catalog order.
func (c *Catalog) Lookup(name string) (Activity, bool) {
	for _, theme := range c.Themes {
		for _, a := range theme.Activities {
			if a.Name == name {
				return a, true
			}
		}
	}
	return Activity{}, false
}

// Theme finds a theme by name, ignoring case.
func (c *Catalog) Theme(name string) (Theme, bool) {
	for _, theme := range c.Themes {
		if strings.EqualFold(theme.Name, strings.TrimSpace(name)) {
			return theme, true
		}
	}
	return Theme{}, false
}

func (c *Catalog) Template(id string) (Template, bool) {
	for _, t := range c.Templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Expand turns activity names into task inputs. Names that match nothing are
// skipped.
func (c *Catalog) Expand(names []string) []model.TaskInput {
	inputs := make([]model.TaskInput, 0, len(names))
	for _, name := range names {
		a, ok := c.Lookup(name)
		if !ok {
			continue
		}
		inputs = append(inputs, a.Input())
	}
	return inputs
}

// ExpandTemplate expands the activities of template id.
func (c *Catalog) ExpandTemplate(id string) ([]model.TaskInput, bool) {
	t, ok := c.Template(id)
	if !ok {
		return nil, false
	}
	return c.Expand(t.Activities), true
}

// Input is the task created from the activity. Priority, repeat and goal are
// fixed for catalog tasks.
func (a Activity) Input() model.TaskInput {
	return model.TaskInput{
		Name:     a.Name,
		Time:     a.Time,
		Category: a.Category,
		Priority: model.PriorityMedium,
		Icon:     a.Icon,
		Repeat:   model.RepeatDaily,
		Goal:     1,
		Duration: a.Duration,
	}
}
