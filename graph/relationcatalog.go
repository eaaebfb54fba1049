package graph

import (
	"fmt"
	"sort"
	"strings"
)

// RelationCatalog is documentation tooling only: it derives a human-readable
// map of every @relation/@static/@args-carrying field from an SDL document,
// for `cmd/gqlsql explain`. The translator itself is schema-less and never
// builds or consults a Schema at request time — this is purely a
// convenience for someone trying to understand what a schema wires up to
// before they run a query against it.
type RelationCatalog struct {
	schema *Schema
}

// RelationEntry describes one field's relation metadata within RelationCatalog.
type RelationEntry struct {
	Type             string
	Field            string
	Table            string
	Single           bool
	HasFilter        bool
	HasDistinct      bool
	Static           bool
	IsFunctionSource bool
}

// BuildRelationCatalog parses sdl and derives a RelationCatalog from every
// object type's field directives.
func BuildRelationCatalog(sdl string) (*RelationCatalog, error) {
	schema, err := NewSchema(sdl)
	if err != nil {
		return nil, fmt.Errorf("explain: %w", err)
	}
	return &RelationCatalog{schema: schema}, nil
}

// Entries returns every relation-bearing field, sorted by type then field
// name for stable output.
func (c *RelationCatalog) Entries() []RelationEntry {
	var entries []RelationEntry
	for typeName, obj := range c.schema.typeMap {
		for fieldName, fd := range obj.Fields {
			if fd.RelationTable == "" && !fd.RelationSingle && !fd.Static && !fd.IsFunctionSource &&
				!fd.RelationFilter && !fd.RelationDistinct {
				continue
			}
			entries = append(entries, RelationEntry{
				Type:             typeName,
				Field:            fieldName,
				Table:            fd.RelationTable,
				Single:           fd.RelationSingle,
				HasFilter:        fd.RelationFilter,
				HasDistinct:      fd.RelationDistinct,
				Static:           fd.Static,
				IsFunctionSource: fd.IsFunctionSource,
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Type != entries[j].Type {
			return entries[i].Type < entries[j].Type
		}
		return entries[i].Field < entries[j].Field
	})
	return entries
}

// String renders the catalog as the plain-text table `explain` prints.
func (c *RelationCatalog) String() string {
	var b strings.Builder
	for _, e := range c.Entries() {
		fmt.Fprintf(&b, "%s.%s", e.Type, e.Field)
		switch {
		case e.Static:
			b.WriteString(" -> @static\n")
			continue
		case e.IsFunctionSource:
			fmt.Fprintf(&b, " -> @args function %q", e.Table)
		default:
			fmt.Fprintf(&b, " -> table %q", e.Table)
		}
		if e.Single {
			b.WriteString(" single")
		}
		if e.HasFilter {
			b.WriteString(" +filter")
		}
		if e.HasDistinct {
			b.WriteString(" +distinct")
		}
		b.WriteString("\n")
	}
	return b.String()
}
