// Package graphql provides the PhotoShare schema and the client operations.
// Both are embedded at compile time: the API gateway builds its executable
// schema from Schema, and the terminal client sends the documents returned by
// Operation.
package graphql

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed schema.graphql
var Schema string

// OperationsFS provides access to the embedded .gql operation files.
//
// Structure:
//
//	operations/
//	  queries/*.gql       - Query operations
//	  mutations/*.gql     - Mutation operations
//	  fragments/*.gql     - Reusable fragments, one per file, named after the file
//
//go:embed operations/queries/*.gql operations/mutations/*.gql operations/fragments/*.gql
var OperationsFS embed.FS

// Operation returns the named operation document with every fragment it
// spreads (transitively) appended.
func Operation(name string) (string, error) {
	var doc []byte
	var err error
	for _, dir := range []string{"queries", "mutations"} {
		doc, err = OperationsFS.ReadFile(path.Join("operations", dir, name+".gql"))
		if err == nil {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("operation %q not found", name)
	}

	fragments, err := loadFragments()
	if err != nil {
		return "", err
	}

	out := string(doc)
	included := map[string]bool{}
	for {
		added := false
		for _, fname := range sortedKeys(fragments) {
			if included[fname] || !strings.Contains(out, "..."+fname) {
				continue
			}
			out += "\n" + fragments[fname]
			included[fname] = true
			added = true
		}
		if !added {
			return out, nil
		}
	}
}

// MustOperation is like Operation but panics when the document is missing.
func MustOperation(name string) string {
	doc, err := Operation(name)
	if err != nil {
		panic(err)
	}
	return doc
}

func loadFragments() (map[string]string, error) {
	entries, err := fs.ReadDir(OperationsFS, "operations/fragments")
	if err != nil {
		return nil, fmt.Errorf("read fragments: %w", err)
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		b, err := OperationsFS.ReadFile(path.Join("operations/fragments", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read fragment %s: %w", e.Name(), err)
		}
		out[strings.TrimSuffix(e.Name(), ".gql")] = string(b)
	}
	return out, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
