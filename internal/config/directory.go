package config

import (
	"fmt"
	"strings"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/clierr"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

// entry is the shape shared by tags and people.
type entry struct{ id, name string }

func tagEntries(tags []task.Tag) []entry {
	out := make([]entry, len(tags))
	for i, t := range tags {
		out[i] = entry{t.ID, t.Name}
	}
	return out
}

func personEntries(people []task.Person) []entry {
	out := make([]entry, len(people))
	for i, p := range people {
		out[i] = entry{p.ID, p.Name}
	}
	return out
}

func validateDirectory(kind string, entries []entry) error {
	ids := make(map[string]bool, len(entries))
	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.id == "" || e.name == "" {
			return fmt.Errorf("%w: every %s needs an id and a name", ErrInvalid, kind)
		}
		key := strings.ToLower(e.name)
		if ids[e.id] || names[key] {
			return fmt.Errorf("%w: duplicate %s %q", ErrInvalid, kind, e.name)
		}
		ids[e.id] = true
		names[key] = true
	}
	return nil
}

// lookup matches ref against IDs exactly, then names case-insensitively.
func lookup(entries []entry, ref string) (int, bool) {
	for i, e := range entries {
		if e.id == ref {
			return i, true
		}
	}
	for i, e := range entries {
		if strings.EqualFold(e.name, ref) {
			return i, true
		}
	}
	return -1, false
}

// TagMap indexes the declared tags by ID.
func (c *Config) TagMap() map[string]task.Tag {
	m := make(map[string]task.Tag, len(c.Tags))
	for _, t := range c.Tags {
		m[t.ID] = t
	}
	return m
}

// PersonMap indexes the declared people by ID.
func (c *Config) PersonMap() map[string]task.Person {
	m := make(map[string]task.Person, len(c.People))
	for _, p := range c.People {
		m[p.ID] = p
	}
	return m
}

// ResolveTags maps tag IDs or names to tag IDs.
func (c *Config) ResolveTags(refs []string) ([]string, error) {
	entries := tagEntries(c.Tags)
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		i, ok := lookup(entries, ref)
		if !ok {
			return nil, clierr.Newf(clierr.UnknownTag, "unknown tag %q", ref).
				WithDetails(map[string]any{"tag": ref})
		}
		out = append(out, entries[i].id)
	}
	return out, nil
}

// ResolvePeople maps person IDs or names to person IDs.
func (c *Config) ResolvePeople(refs []string) ([]string, error) {
	entries := personEntries(c.People)
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		i, ok := lookup(entries, ref)
		if !ok {
			return nil, clierr.Newf(clierr.UnknownPerson, "unknown person %q", ref).
				WithDetails(map[string]any{"person": ref})
		}
		out = append(out, entries[i].id)
	}
	return out, nil
}

// AddTag declares a new tag. The ID is derived from the name.
func (c *Config) AddTag(name string) (task.Tag, error) {
	id, err := newEntryID("tag", name, tagEntries(c.Tags))
	if err != nil {
		return task.Tag{}, err
	}
	t := task.Tag{ID: id, Name: strings.TrimSpace(name)}
	c.Tags = append(c.Tags, t)
	return t, nil
}

// AddPerson declares a new person. The ID is derived from the name.
func (c *Config) AddPerson(name string) (task.Person, error) {
	id, err := newEntryID("person", name, personEntries(c.People))
	if err != nil {
		return task.Person{}, err
	}
	p := task.Person{ID: id, Name: strings.TrimSpace(name)}
	c.People = append(c.People, p)
	return p, nil
}

func newEntryID(kind, name string, existing []entry) (string, error) {
	id := task.GenerateSlug(name)
	if id == "" {
		return "", clierr.Newf(clierr.InvalidInput, "%s name %q must contain letters or digits", kind, name)
	}
	for _, e := range existing {
		if e.id == id || strings.EqualFold(e.name, strings.TrimSpace(name)) {
			return "", clierr.Newf(clierr.DuplicateName, "%s %q already exists", kind, name).
				WithDetails(map[string]any{kind: e.id})
		}
	}
	return id, nil
}
