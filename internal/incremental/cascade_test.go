package incremental

import (
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/sitegen/internal/deps"
	"git.home.luguber.info/inful/sitegen/internal/fingerprint"
)

func seedStore(t *testing.T, root string, entries map[string]string) *fingerprint.Store {
	t.Helper()
	store := fingerprint.NewStore(filepath.Join(root, "history.json"))
	for full, content := range entries {
		p := writeTreeFile(t, root, full, content)
		hash, err := fingerprint.HashFile(p)
		if err != nil {
			t.Fatalf("HashFile: %v", err)
		}
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		cat, rel := deps.SplitCategoryPath(full)
		store.Set(cat, rel, fingerprint.Fingerprint{ModTime: info.ModTime().UnixNano(), ContentHash: hash})
	}
	return store
}

func TestResolvePrerequisitesUnchanged(t *testing.T) {
	root := t.TempDir()
	store := seedStore(t, root, map[string]string{"templates/post.html": "<article>"})

	index := deps.ReverseIndex{"templates/post.html": {"posts/a.md": {}}}
	forced, err := ResolvePrerequisites(root, index, store, false)
	if err != nil {
		t.Fatalf("ResolvePrerequisites: %v", err)
	}
	if forced.Paths.Len() != 0 {
		t.Errorf("unchanged prereq forced %v", forced.Paths)
	}
	if !forced.IsPrereq("templates/post.html") {
		t.Error("prereq not tracked")
	}
}

func TestResolvePrerequisitesChanged(t *testing.T) {
	root := t.TempDir()
	store := seedStore(t, root, map[string]string{"templates/post.html": "<article>v1"})

	p := filepath.Join(root, "templates", "post.html")
	writeTreeFile(t, root, "templates/post.html", "<article>v2")
	touchFuture(t, p)

	index := deps.ReverseIndex{"templates/post.html": {"posts/a.md": {}, "posts/b.md": {}}}
	forced, err := ResolvePrerequisites(root, index, store, false)
	if err != nil {
		t.Fatalf("ResolvePrerequisites: %v", err)
	}
	if !forced.Paths.Has("posts/a.md") || !forced.Paths.Has("posts/b.md") {
		t.Errorf("forced = %v, want both dependents", forced.Paths)
	}
	fp, ok := forced.Prereqs["templates/post.html"]
	if !ok || fp.ContentHash == "" {
		t.Error("changed prereq missing fresh fingerprint")
	}
}

func TestResolvePrerequisitesDeletedCascades(t *testing.T) {
	root := t.TempDir()
	store := seedStore(t, root, map[string]string{"templates/post.html": "<article>"})
	if err := os.Remove(filepath.Join(root, "templates", "post.html")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	index := deps.ReverseIndex{"templates/post.html": {"posts/a.md": {}}}
	forced, err := ResolvePrerequisites(root, index, store, false)
	if err != nil {
		t.Fatalf("ResolvePrerequisites: %v", err)
	}
	if !forced.Paths.Has("posts/a.md") {
		t.Error("deleted prerequisite must still cascade")
	}

	// Once the store forgets the prerequisite the cascade settles.
	store.Remove("templates", "post.html")
	forced, err = ResolvePrerequisites(root, index, store, false)
	if err != nil {
		t.Fatalf("ResolvePrerequisites: %v", err)
	}
	if forced.Paths.Len() != 0 {
		t.Errorf("forgotten prerequisite still forcing %v", forced.Paths)
	}
}

func TestResolvePrerequisitesFullRescan(t *testing.T) {
	root := t.TempDir()
	store := seedStore(t, root, map[string]string{"templates/post.html": "<article>"})

	index := deps.ReverseIndex{"templates/post.html": {"posts/a.md": {}}}
	forced, err := ResolvePrerequisites(root, index, store, true)
	if err != nil {
		t.Fatalf("ResolvePrerequisites: %v", err)
	}
	// With history ignored, an existing prereq always counts as changed.
	if !forced.Paths.Has("posts/a.md") {
		t.Error("full rescan should force all dependents of existing prereqs")
	}
}
