package demo

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownDemo = errors.New("demo: unknown demo")

type Registry struct {
	demos map[string]func() Definition
}

func NewRegistry() *Registry {
	r := &Registry{
		demos: make(map[string]func() Definition),
	}

	r.demos["falling"] = Falling
	r.demos["spring"] = Spring
	r.demos["ramp"] = Ramp

	return r
}

func (r *Registry) Get(name string) (Definition, error) {
	fn, ok := r.demos[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownDemo, name)
	}
	return fn(), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.demos))
	for name := range r.demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
