package incremental

import (
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/sitegen/internal/deps"
	"git.home.luguber.info/inful/sitegen/internal/fingerprint"
)

func TestEngineStaleStoredFingerprint(t *testing.T) {
	root := t.TempDir()
	p := writeTreeFile(t, root, "templates/index.html", "<html>new</html>")

	// The store remembers an older observation with a different digest;
	// the scan must report exactly one modified entry carrying the fresh
	// fingerprint, and nothing deleted.
	store := fingerprint.NewStore(filepath.Join(root, "history.json"))
	store.Set("templates", "index.html", fingerprint.Fingerprint{ModTime: 100, ContentHash: "a1"})

	engine := &Engine{Root: root, Store: store, PreferFresh: true}
	changes, err := engine.Detect(false)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	tpl := changes["templates"]
	if len(tpl.Modified) != 1 || tpl.Deleted.Len() != 0 {
		t.Fatalf("templates changes = %+v, want one modified and nothing deleted", tpl)
	}
	fp := tpl.Modified["index.html"]
	wantHash, err := fingerprint.HashFile(p)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if fp.ContentHash != wantHash {
		t.Errorf("hash = %s, want fresh %s", fp.ContentHash, wantHash)
	}
	if fp.ModTime <= 100 {
		t.Errorf("mod time = %d, want fresh stat value", fp.ModTime)
	}
}

func TestEngineCascadePropagation(t *testing.T) {
	root := t.TempDir()
	store := seedStore(t, root, map[string]string{
		"templates/post.html": "<article>v1",
		"posts/a.md":          "# a",
		"posts/sub/b.md":      "# b",
	})

	// Edit only the shared template.
	p := filepath.Join(root, "templates", "post.html")
	writeTreeFile(t, root, "templates/post.html", "<article>v2")
	touchFuture(t, p)

	engine := &Engine{
		Root:        root,
		Store:       store,
		Decls:       deps.Declarations{"posts/**/*.md": {"templates/post.html"}},
		PreferFresh: true,
	}
	changes, err := engine.Detect(false)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	posts := changes["posts"]
	for _, want := range []string{"a.md", "sub/b.md"} {
		if _, ok := posts.Modified[want]; !ok {
			t.Errorf("posts modified = %v, want %s forced by cascade", posts.Modified, want)
		}
	}
	if _, ok := changes["templates"].Modified["post.html"]; !ok {
		t.Error("changed prerequisite itself not reported modified")
	}
}

func TestEngineIdempotentAcrossRuns(t *testing.T) {
	root := t.TempDir()
	store := seedStore(t, root, map[string]string{
		"templates/post.html": "<article>",
		"posts/a.md":          "# a",
		"assets/style.css":    "body{}",
		"data/site.json":      "{}",
	})

	engine := &Engine{
		Root:        root,
		Store:       store,
		Decls:       deps.Declarations{"posts/**/*.md": {"templates/post.html"}},
		PreferFresh: true,
	}
	changes, err := engine.Detect(false)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if !changes.Empty() {
		t.Errorf("no filesystem changes but detected %+v", changes)
	}
}

func TestEngineFullRescanCountsEverything(t *testing.T) {
	root := t.TempDir()
	writeTreeFile(t, root, "posts/a.md", "a")
	writeTreeFile(t, root, "posts/b.md", "b")
	writeTreeFile(t, root, "templates/index.html", "<html>")

	store := fingerprint.NewStore(filepath.Join(root, "history.json"))
	engine := &Engine{Root: root, Store: store, PreferFresh: true}

	changes, err := engine.Detect(true)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if n := len(changes["posts"].Modified); n != 2 {
		t.Errorf("posts modified = %d, want 2", n)
	}
	if n := len(changes["templates"].Modified); n != 1 {
		t.Errorf("templates modified = %d, want 1", n)
	}
	for cat, cs := range changes {
		if cs.Deleted.Len() != 0 {
			t.Errorf("%s deletions on full rescan: %v", cat, cs.Deleted)
		}
	}
}

func TestEngineReconcilePersistLifecycle(t *testing.T) {
	root := t.TempDir()
	storePath := filepath.Join(root, "history.json")
	if err := fingerprint.Init(storePath, []string{"templates", "posts", "assets", "data"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	store, err := fingerprint.Load(storePath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	writeTreeFile(t, root, "posts/a.md", "# a")

	engine := &Engine{Root: root, Store: store, PreferFresh: true}
	changes, err := engine.Detect(false)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	for cat, cs := range changes {
		if err := Reconcile(cs, nil, nil, store.Section(cat)); err != nil {
			t.Fatalf("Reconcile %s: %v", cat, err)
		}
	}
	if err := store.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	// A second process loading the persisted store sees a settled world.
	reloaded, err := fingerprint.Load(storePath)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	engine2 := &Engine{Root: root, Store: reloaded, PreferFresh: true}
	changes2, err := engine2.Detect(false)
	if err != nil {
		t.Fatalf("second Detect: %v", err)
	}
	if !changes2.Empty() {
		t.Errorf("reloaded store should yield empty change set, got %+v", changes2)
	}
}
