package template

import (
	"testing"

	"daily-routine/internal/model"
)

func mustDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	return c
}

func TestDefaultCatalogShape(t *testing.T) {
	c := mustDefault(t)

	wantThemes := []string{"Learning", "Mindfulness", "Health", "Productivity", "Home/Lifestyle", "Special"}
	if len(c.Themes) != len(wantThemes) {
		t.Fatalf("themes = %d, want %d", len(c.Themes), len(wantThemes))
	}
	for i, name := range wantThemes {
		if c.Themes[i].Name != name {
			t.Errorf("theme[%d] = %q, want %q", i, c.Themes[i].Name, name)
		}
	}
	if len(c.Templates) != 4 {
		t.Errorf("templates = %d, want 4", len(c.Templates))
	}
	for _, theme := range c.Themes {
		for _, a := range theme.Activities {
			if !a.Category.Valid() {
				t.Errorf("%s: invalid category %q", a.Name, a.Category)
			}
		}
	}
}

func TestExpandTemplateAllResolve(t *testing.T) {
	c := mustDefault(t)
	for _, tmpl := range c.Templates {
		inputs, ok := c.ExpandTemplate(tmpl.ID)
		if !ok {
			t.Fatalf("ExpandTemplate(%q) not found", tmpl.ID)
		}
		if len(inputs) != len(tmpl.Activities) {
			t.Errorf("%s: %d inputs, want %d", tmpl.ID, len(inputs), len(tmpl.Activities))
		}
		for i, in := range inputs {
			if in.Name != tmpl.Activities[i] {
				t.Errorf("%s[%d] = %q, want %q", tmpl.ID, i, in.Name, tmpl.Activities[i])
			}
			if in.Priority != model.PriorityMedium || in.Repeat != model.RepeatDaily || in.Goal != 1 {
				t.Errorf("%s: defaults = %s/%s/%d", in.Name, in.Priority, in.Repeat, in.Goal)
			}
			if err := in.Validate(); err != nil {
				t.Errorf("%s: %v", in.Name, err)
			}
		}
	}
}

func TestExpandMorningRoutine(t *testing.T) {
	inputs, _ := mustDefault(t).ExpandTemplate("morning-routine")
	first := inputs[0]
	if first.Name != "Meditation" || first.Time != "07:00" || first.Duration != 15 || first.Category != model.CategoryHealth {
		t.Errorf("first = %+v", first)
	}
}

func TestExpandSkipsUnknownNames(t *testing.T) {
	c := mustDefault(t)
	names := []string{"Reading", "Underwater Basket Weaving", "Laundry"}
	inputs := c.Expand(names)
	if len(inputs) >= len(names) || len(inputs) != 2 {
		t.Errorf("Expand = %d inputs", len(inputs))
	}
	if _, ok := c.ExpandTemplate("nope"); ok {
		t.Error("unknown template reported found")
	}
}

func TestLookupFirstMatchWins(t *testing.T) {
	c, err := Parse([]byte(`
[[themes]]
name = "A"
  [[themes.activities]]
  name = "Walk"
  time = "06:00"
  category = "Health"
[[themes]]
name = "B"
  [[themes.activities]]
  name = "Walk"
  time = "18:00"
  category = "Social"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	a, ok := c.Lookup("Walk")
	if !ok || a.Time != "06:00" {
		t.Errorf("Lookup = %+v, %v", a, ok)
	}
	if th, ok := c.Theme(" b "); !ok || th.Name != "B" {
		t.Errorf("Theme = %+v, %v", th, ok)
	}
}

func TestParseRejectsBadCatalog(t *testing.T) {
	cases := map[string]string{
		"category": "[[themes]]\nname = \"A\"\n[[themes.activities]]\nname = \"x\"\ntime = \"06:00\"\ncategory = \"Chores\"\n",
		"time":     "[[themes]]\nname = \"A\"\n[[themes.activities]]\nname = \"x\"\ntime = \"6:00\"\ncategory = \"Misc\"\n",
	}
	for name, data := range cases {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("%s: Parse accepted bad catalog", name)
		}
	}
}
