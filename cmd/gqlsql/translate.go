package gqlsql

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lateralquery/gqlpg/translate"
)

// RunTranslate implements the `translate` subcommand: read a GraphQL query
// file and an optional JSON variables file, run the translator, and print
// {sql, params} to stdout. Uses the same flag-parsing-by-hand shape the rest
// of this CLI's subcommands use, repurposed here from code generation to
// translation.
func RunTranslate(args []string) error {
	var queryPath, variablesPath, operationName string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--query":
			if i+1 >= len(args) {
				return fmt.Errorf("--query requires a file path")
			}
			i++
			queryPath = args[i]
		case "--variables":
			if i+1 >= len(args) {
				return fmt.Errorf("--variables requires a file path")
			}
			i++
			variablesPath = args[i]
		case "--operation":
			if i+1 >= len(args) {
				return fmt.Errorf("--operation requires a name")
			}
			i++
			operationName = args[i]
		}
	}

	if queryPath == "" {
		return fmt.Errorf("--query <file> is required")
	}

	queryBytes, err := os.ReadFile(queryPath)
	if err != nil {
		return fmt.Errorf("failed to read query file: %w", err)
	}

	var variables map[string]interface{}
	if variablesPath != "" {
		varBytes, err := os.ReadFile(variablesPath)
		if err != nil {
			return fmt.Errorf("failed to read variables file: %w", err)
		}
		if err := json.Unmarshal(varBytes, &variables); err != nil {
			return fmt.Errorf("failed to parse variables file: %w", err)
		}
	}

	result, err := translate.Translate(string(queryBytes), variables, operationName)
	if err != nil {
		return err
	}

	out := struct {
		SQL    string        `json:"sql"`
		Params []interface{} `json:"params"`
	}{SQL: result.SQL, Params: result.Params}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
