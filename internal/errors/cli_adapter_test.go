package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)

	assert.Equal(t, 0, adapter.ExitCodeFor(nil))
	assert.Equal(t, 1, adapter.ExitCodeFor(fmt.Errorf("plain")))
	assert.Equal(t, 2, adapter.ExitCodeFor(New(CategoryValidation, SeverityError, "bad flag")))
	assert.Equal(t, 7, adapter.ExitCodeFor(ConfigNotFound("meta.json")))
	assert.Equal(t, 9, adapter.ExitCodeFor(CorruptState("history.json", fmt.Errorf("eof"))))
	assert.Equal(t, 11, adapter.ExitCodeFor(RenderError("index.html", fmt.Errorf("boom"))))
	assert.Equal(t, 11, adapter.ExitCodeFor(WriteError("site/index.html", fmt.Errorf("disk full"))))

	// Scaffolding failures exit with the general code, not the generation one.
	assert.Equal(t, 1, adapter.ExitCodeFor(ScaffoldError("templates", fmt.Errorf("file exists"))))

	// Wrapped errors still classify through errors.As.
	wrapped := fmt.Errorf("running: %w", ConfigNotFound("meta.json"))
	assert.Equal(t, 7, adapter.ExitCodeFor(wrapped))
}

func TestFormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)
	verbose := NewCLIErrorAdapter(true, nil)

	err := New(CategoryConfig, SeverityFatal, "metadata file not found")
	assert.Equal(t, "metadata file not found", quiet.FormatError(err))
	assert.Contains(t, verbose.FormatError(err), "config")

	assert.Equal(t, "render: template failed", quiet.FormatError(New(CategoryRender, SeverityError, "template failed")))
	assert.Equal(t, "Error: plain", quiet.FormatError(fmt.Errorf("plain")))
	assert.Equal(t, "", quiet.FormatError(nil))
}
