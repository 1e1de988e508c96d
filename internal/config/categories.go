package config

// Category describes one tracked source tree and the file extension it
// contributes to the build. An empty extension matches every file.
type Category struct {
	Name string
	Ext  string
}

// OutputDir is the generated site directory at the project root.
const OutputDir = "site"

// Categories returns the tracked source trees in scan order. Ordering is
// significant: prerequisite cascades are resolved before any category scan,
// and generation consumes categories in this sequence.
func Categories() []Category {
	return []Category{
		{Name: "templates", Ext: ".html"},
		{Name: "posts", Ext: ".md"},
		{Name: "assets", Ext: ""},
		{Name: "data", Ext: ".json"},
	}
}

// CategoryNames returns just the names, in scan order.
func CategoryNames() []string {
	cats := Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return names
}

// SourceDirs lists every directory the scaffold creates: the tracked
// categories plus the output tree.
func SourceDirs() []string {
	return append(CategoryNames(), OutputDir)
}
