package content

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"clubsite/internal/domain"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type defaultSet struct {
	Events       []domain.Event       `yaml:"events"`
	Coordinators []domain.Coordinator `yaml:"coordinators"`
	Clubs        []domain.Club        `yaml:"clubs"`
	Gallery      []string             `yaml:"gallery"`
}

var defaults = mustLoadDefaults(defaultsYAML)

func mustLoadDefaults(data []byte) defaultSet {
	d, err := loadDefaults(data)
	if err != nil {
		panic(fmt.Sprintf("content: compiled defaults: %v", err))
	}
	return d
}

func loadDefaults(data []byte) (defaultSet, error) {
	var d defaultSet
	if err := yaml.Unmarshal(data, &d); err != nil {
		return defaultSet{}, err
	}
	if len(d.Events) == 0 {
		return defaultSet{}, fmt.Errorf("no default events")
	}
	return d, nil
}

// DefaultEvents returns a copy of the compiled default events
func DefaultEvents() []domain.Event {
	out := make([]domain.Event, len(defaults.Events))
	for i, e := range defaults.Events {
		e.Tags = slices.Clone(e.Tags)
		out[i] = e
	}
	return out
}

// DefaultCoordinators returns a copy of the compiled default coordinators
func DefaultCoordinators() []domain.Coordinator {
	return slices.Clone(defaults.Coordinators)
}

// DefaultClubs returns a copy of the compiled default clubs
func DefaultClubs() []domain.Club {
	out := make([]domain.Club, len(defaults.Clubs))
	for i, c := range defaults.Clubs {
		c.Objectives = slices.Clone(c.Objectives)
		c.Coordinators = slices.Clone(c.Coordinators)
		c.Projects = slices.Clone(c.Projects)
		c.Gallery = slices.Clone(c.Gallery)
		out[i] = c
	}
	return out
}

// DefaultGallery returns a copy of the compiled default gallery
func DefaultGallery() []string {
	return slices.Clone(defaults.Gallery)
}
