package agent

import (
	"fmt"
	"sort"
)

// Registry is a closed mapping from agent name to implementation. Names keep
// registration order, which is the declared execution order for a run; lookup
// of an unknown name is a configuration error, not a silent skip.
type Registry struct {
	order  []string
	agents map[string]Agent
}

// NewRegistry creates a registry from the given agents. Registration order is
// preserved. Duplicate or empty names are rejected.
func NewRegistry(agents ...Agent) (*Registry, error) {
	r := &Registry{agents: make(map[string]Agent, len(agents))}
	for _, a := range agents {
		if err := r.register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(a Agent) error {
	if a == nil {
		return fmt.Errorf("nil agent")
	}
	name := a.Name()
	if name == "" {
		return fmt.Errorf("agent has empty name")
	}
	if _, exists := r.agents[name]; exists {
		return fmt.Errorf("duplicate agent name %q", name)
	}
	r.order = append(r.order, name)
	r.agents[name] = a
	return nil
}

// Lookup returns the agent registered under name.
func (r *Registry) Lookup(name string) (Agent, error) {
	a, ok := r.agents[name]
	if !ok {
		return nil, fmt.Errorf("unknown agent %q (registered: %v)", name, r.sortedNames())
	}
	return a, nil
}

// Names returns all registered agent names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.agents[name]
	return ok
}

func (r *Registry) sortedNames() []string {
	names := r.Names()
	sort.Strings(names)
	return names
}
