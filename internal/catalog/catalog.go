// Package catalog maps the short model aliases accepted on the command line to
// the vendor-qualified identifiers OpenRouter expects, along with their price.
package catalog

import (
	"fmt"
	"sort"
)

// ModelEntry describes one selectable model.
type ModelEntry struct {
	Alias           string
	WireID          string
	PricePerKTokens float64 // USD per 1000 tokens
}

// UnknownModelError is returned by Resolve for aliases the catalog does not know.
type UnknownModelError struct {
	Alias string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model %q", e.Alias)
}

// Catalog is read-only once built.
type Catalog struct {
	byAlias  map[string]ModelEntry
	byWireID map[string]ModelEntry
	aliases  []string
}

// New builds a catalog from entries. Later entries win on duplicate aliases.
func New(entries ...ModelEntry) *Catalog {
	c := &Catalog{
		byAlias:  make(map[string]ModelEntry, len(entries)),
		byWireID: make(map[string]ModelEntry, len(entries)),
	}
	for _, e := range entries {
		if _, dup := c.byAlias[e.Alias]; !dup {
			c.aliases = append(c.aliases, e.Alias)
		}
		c.byAlias[e.Alias] = e
		c.byWireID[e.WireID] = e
	}
	sort.Strings(c.aliases)
	return c
}

// Default returns the catalog shipped with the CLI.
func Default() *Catalog {
	return New(
		ModelEntry{Alias: "gpt-4", WireID: "openai/gpt-4", PricePerKTokens: 0.03},
		ModelEntry{Alias: "claude-3", WireID: "anthropic/claude-3-opus", PricePerKTokens: 0.015},
		ModelEntry{Alias: "gpt-3.5", WireID: "openai/gpt-3.5-turbo", PricePerKTokens: 0.0015},
		ModelEntry{Alias: "embed-small", WireID: "openai/text-embedding-3-small", PricePerKTokens: 0.00002},
	)
}

func (c *Catalog) Resolve(alias string) (ModelEntry, error) {
	e, ok := c.byAlias[alias]
	if !ok {
		return ModelEntry{}, &UnknownModelError{Alias: alias}
	}
	return e, nil
}

// Aliases returns the known aliases in sorted order.
func (c *Catalog) Aliases() []string {
	out := make([]string, len(c.aliases))
	copy(out, c.aliases)
	return out
}

// PricePerKTokens looks a price up by wire identifier rather than alias.
func (c *Catalog) PricePerKTokens(wireID string) (float64, bool) {
	e, ok := c.byWireID[wireID]
	if !ok {
		return 0, false
	}
	return e.PricePerKTokens, true
}
