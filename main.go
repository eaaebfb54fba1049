package main

import (
	"fmt"
	"os"

	"github.com/lateralquery/gqlpg/cmd/gqlsql"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "translate":
		err = gqlsql.RunTranslate(os.Args[2:])
	case "serve":
		err = gqlsql.RunServe(os.Args[2:])
	case "explain":
		err = gqlsql.RunExplain(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("gqlsql version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`gqlsql - GraphQL to SQL translator

Usage:
  gqlsql <command> [options]

Commands:
  translate   Translate a GraphQL query file into {sql, params}
  serve       Start the HTTP binding shim
  explain     Print the relation map derived from an SDL file
  version     Print version information
  help        Show this help message

Examples:
  gqlsql translate --query query.graphql --variables vars.json
  gqlsql serve --addr :8080
  gqlsql explain --schema schema.graphqls`)
}
