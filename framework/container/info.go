package container

import "sort"

// ServiceInfo is a snapshot of one registration.
type ServiceInfo struct {
	Name        string   `json:"name"`
	Lifetime    Lifetime `json:"lifetime"`
	Aliases     []string `json:"aliases"`
	HasInstance bool     `json:"has_instance"`
}

// Has reports whether name is registered, either as a primary name or as an
// alias.
//
//	// Laravel: $app->bound('cache')
func (c *Container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[name]
	return ok
}

// Services returns every key in the container, primary names and aliases
// alike, sorted.
func (c *Container) Services() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.entries))
	for k := range c.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ServiceInfo returns the snapshot of the registration behind name.
func (c *Container) ServiceInfo(name string) (ServiceInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[name]
	if !ok {
		return ServiceInfo{}, false
	}
	return r.info(), true
}

// AllServiceInfo returns one snapshot per registration, sorted by primary
// name. Aliases never produce extra entries.
func (c *Container) AllServiceInfo() []ServiceInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ServiceInfo, 0, len(c.entries))
	for key, r := range c.entries {
		if key != r.name {
			continue
		}
		out = append(out, r.info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ServicesByLifetime returns the sorted primary names registered with l.
func (c *Container) ServicesByLifetime(l Lifetime) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for key, r := range c.entries {
		if key == r.name && r.lifetime == l {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

// info must hold at least mu.RLock.
func (r *registration) info() ServiceInfo {
	return ServiceInfo{
		Name:        r.name,
		Lifetime:    r.lifetime,
		Aliases:     append([]string{}, r.aliases...),
		HasInstance: r.lifetime == Singleton && r.instance != notCreated,
	}
}
