package gqlsql

import (
	"fmt"
	"os"

	"github.com/lateralquery/gqlpg/graph"
)

// RunExplain implements the `explain` subcommand: documentation tooling
// only. It parses an SDL file carrying @relation/@static/@args directive
// definitions and prints the relation map graph.RelationCatalog derives from
// it. The translator itself never loads or needs a schema at request time —
// this exists purely so a reader can see, at a glance, what a schema file
// wires a query's fields up to.
func RunExplain(args []string) error {
	var schemaPath string
	for i := 0; i < len(args); i++ {
		if args[i] == "--schema" {
			if i+1 >= len(args) {
				return fmt.Errorf("--schema requires a file path")
			}
			i++
			schemaPath = args[i]
		}
	}
	if schemaPath == "" {
		return fmt.Errorf("--schema <file> is required")
	}

	sdl, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	catalog, err := graph.BuildRelationCatalog(string(sdl))
	if err != nil {
		return err
	}

	fmt.Print(catalog.String())
	return nil
}
