package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLogicalPathMapping(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"templates", "assets", "posts"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, dir), 0o755))
	}
	w, err := New(root)
	require.NoError(t, err)
	t.Cleanup(func() { w.watcher.Close() })

	cases := []struct {
		name string
		want string
	}{
		{filepath.Join(root, "templates", "index.html"), "index"},
		{filepath.Join(root, "assets", "css", "style.css"), "css/style.css"},
		{filepath.Join(root, "posts", "hello.md"), "posts/hello"},
		{filepath.Join(root, "meta.json"), "meta.json"},
	}
	for _, tc := range cases {
		if got := w.logicalPath(tc.name); got != tc.want {
			t.Errorf("logicalPath(%s) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestTakeModifiedClears(t *testing.T) {
	root := t.TempDir()
	w, err := New(root)
	require.NoError(t, err)
	t.Cleanup(func() { w.watcher.Close() })

	w.mu.Lock()
	w.modified = "index"
	w.mu.Unlock()

	if got := w.TakeModified(); got != "index" {
		t.Errorf("TakeModified = %q, want index", got)
	}
	if got := w.TakeModified(); got != "" {
		t.Errorf("second TakeModified = %q, want empty (last-write-wins, not a queue)", got)
	}
}

func TestWatcherObservesWrites(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "templates"), 0o755))

	w, err := New(root)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	w.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(root, "templates", "index.html"), []byte("<html>"), 0o644))

	deadline := time.After(2 * time.Second)
	for {
		if got := w.TakeModified(); got == "index" {
			return
		}
		select {
		case <-deadline:
			t.Fatal("watcher never reported the write")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
