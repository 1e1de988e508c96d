// Package deps builds the reverse dependency index used for cascade
// invalidation: which concrete output files must regenerate when a shared
// prerequisite (a base template, a data file) changes.
package deps

import (
	"io/fs"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/sitegen/internal/util/sets"
)

// Declarations maps a glob-style output pattern to the ordered list of
// prerequisite paths it depends on. Declared by site metadata, static for
// the run. Paths are slash/backslash tolerant.
type Declarations map[string][]string

// ReverseIndex maps a prerequisite path to the set of concrete files that
// depend on it, computed once by expanding the declared patterns against the
// filesystem at build time.
type ReverseIndex map[string]sets.Set[string]

// Normalize converts a declared path to forward slashes.
func Normalize(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// SplitCategoryPath splits a project-relative path like "templates/base.html"
// into its category and category-relative remainder.
func SplitCategoryPath(p string) (category, rel string) {
	category, rel, _ = strings.Cut(Normalize(p), "/")
	return category, rel
}

// BuildReverseIndex expands every declared pattern against fsys and
// accumulates the matches under each of the pattern's prerequisites. A
// prerequisite depended on by multiple patterns gets the union of their
// matches. Patterns that match nothing contribute nothing; that is not an
// error, and neither is a prerequisite that no longer exists on disk - an
// absent prerequisite participates in change detection as deleted and must
// still cascade.
func BuildReverseIndex(fsys fs.FS, decls Declarations) (ReverseIndex, error) {
	index := ReverseIndex{}
	for pattern, prereqs := range decls {
		matches, err := doublestar.Glob(fsys, Normalize(pattern))
		if err != nil {
			// Only malformed patterns error here; reject them loudly
			// instead of silently dropping a declared dependency.
			return nil, err
		}
		dependents := sets.New(matches...)
		for _, prereq := range prereqs {
			key := Normalize(prereq)
			if existing, ok := index[key]; ok {
				existing.Union(dependents)
			} else {
				index[key] = dependents.Clone()
			}
		}
	}
	return index, nil
}
