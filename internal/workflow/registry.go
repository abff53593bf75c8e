// Package workflow holds the compiled-in table that maps symbolic workflow
// names, as they appear in inbound webhook URLs, to the numeric template ids
// understood by the CRM automation API.
package workflow

import (
	"fmt"
	"sort"
	"strings"
)

// Registry is an immutable name -> template id mapping.
// It is built once at startup and shared by every request without locking.
type Registry struct {
	templates map[string]string
}

// NewRegistry copies table into a Registry after checking that every name is
// non-empty and every template id is a non-empty string of digits.
func NewRegistry(table map[string]string) (*Registry, error) {
	templates := make(map[string]string, len(table))
	for name, id := range table {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("workflow name must not be empty (template %q)", id)
		}
		if !isDigits(id) {
			return nil, fmt.Errorf("workflow %q: template id %q is not numeric", name, id)
		}
		templates[name] = id
	}
	return &Registry{templates: templates}, nil
}

// Lookup returns the template id for name.
func (r *Registry) Lookup(name string) (string, bool) {
	id, ok := r.templates[name]
	return id, ok
}

// Len returns the number of registered workflows.
func (r *Registry) Len() int {
	return len(r.templates)
}

// Names returns the registered workflow names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
