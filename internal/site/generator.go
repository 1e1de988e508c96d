// Package site turns change decisions into generated output: rendering
// templates and posts, copying assets, and cleaning up deleted files.
package site

import (
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/config"
	sgerrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/incremental"
	lf "git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Generator implements the per-category modification and deletion handlers
// the change-detection core drives. It is injected at reconciliation time;
// the core never renders anything itself.
type Generator struct {
	root   string
	meta   *config.Meta
	logger *slog.Logger

	// templates are parsed lazily on first use and reused for the run.
	templates *template.Template
}

// NewGenerator creates a generator rooted at the project directory.
func NewGenerator(root string, meta *config.Meta) *Generator {
	return &Generator{root: root, meta: meta, logger: slog.Default()}
}

// WithLogger sets a custom logger.
func (g *Generator) WithLogger(logger *slog.Logger) *Generator {
	g.logger = logger
	return g
}

// Handlers returns the (onModified, onDeleted) pair for a category.
func (g *Generator) Handlers(category string) (incremental.Handler, incremental.Handler) {
	switch category {
	case "templates":
		return g.renderTemplate, g.deleteOutput
	case "posts":
		return g.renderPost, g.deletePostOutput
	case "assets":
		return g.copyAsset, g.deleteOutput
	case "data":
		return g.noteData, g.noteData
	default:
		return nil, nil
	}
}

// loadTemplates parses every template under templates/ into one template
// set, named by slash-relative path so posts can reference nested templates.
func (g *Generator) loadTemplates() (*template.Template, error) {
	if g.templates != nil {
		return g.templates, nil
	}

	root := filepath.Join(g.root, "templates")
	tmpl := template.New("")
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		_, err = tmpl.New(filepath.ToSlash(rel)).Parse(string(raw))
		return err
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, sgerrors.RenderError("templates", err)
	}
	g.templates = tmpl
	return tmpl, nil
}

func (g *Generator) outputPath(rel string) (string, error) {
	dest := filepath.Join(g.root, config.OutputDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", sgerrors.WriteError(dest, err)
	}
	return dest, nil
}

func (g *Generator) renderTemplate(name string) error {
	if g.meta.Suppressed("templates", name) {
		return nil
	}
	g.logger.Info("Rendering template", lf.Path(name))

	tmpl, err := g.loadTemplates()
	if err != nil {
		return err
	}
	dest, err := g.outputPath(name)
	if err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return sgerrors.RenderError(name, err)
	}
	defer out.Close()

	if err := tmpl.ExecuteTemplate(out, name, nil); err != nil {
		return sgerrors.RenderError(name, err)
	}
	return nil
}

func (g *Generator) renderPost(name string) error {
	if g.meta.Suppressed("posts", name) {
		return nil
	}
	g.logger.Info("Generating post", lf.Path(name))

	raw, err := os.ReadFile(filepath.Join(g.root, "posts", filepath.FromSlash(name)))
	if err != nil {
		return sgerrors.RenderError(name, err)
	}
	post, err := LoadPost(name, raw)
	if err != nil {
		return err
	}

	tmplName, ok := post.TemplateName()
	if !ok {
		tmplName = g.meta.Base.Posts
	}
	if tmplName == "" {
		return sgerrors.RenderError(name, sgerrors.ValidationFailed("template", "post names no template and no base is configured"))
	}

	tmpl, err := g.loadTemplates()
	if err != nil {
		return err
	}

	dest, err := g.outputPath(postOutputName(name))
	if err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return sgerrors.RenderError(name, err)
	}
	defer out.Close()

	data := map[string]any{"Post": post.Fields, "Content": post.HTML}
	if err := tmpl.ExecuteTemplate(out, tmplName, data); err != nil {
		return sgerrors.RenderError(name, err)
	}
	return nil
}

func (g *Generator) copyAsset(name string) error {
	if g.meta.Suppressed("assets", name) {
		return nil
	}
	g.logger.Info("Copying asset", lf.Path(name))

	src, err := os.Open(filepath.Join(g.root, "assets", filepath.FromSlash(name)))
	if err != nil {
		return sgerrors.WriteError(name, err)
	}
	defer src.Close()

	dest, err := g.outputPath(name)
	if err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return sgerrors.WriteError(dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return sgerrors.WriteError(dest, err)
	}
	return nil
}

func (g *Generator) noteData(name string) error {
	// Data files feed dependency cascades; they produce no output of their own.
	g.logger.Info("Updating metadata", lf.Category("data"), lf.Path(name))
	return nil
}

// deleteOutput removes the generated counterpart of a deleted source file
// and prunes its directory if that left it empty.
func (g *Generator) deleteOutput(name string) error {
	dest := filepath.Join(g.root, config.OutputDir, filepath.FromSlash(name))
	if info, err := os.Stat(dest); err == nil && !info.IsDir() {
		g.logger.Info("Deleting output", lf.Path(name))
		if err := os.Remove(dest); err != nil {
			return sgerrors.WriteError(dest, err)
		}
	}

	dir := filepath.Dir(dest)
	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		g.logger.Info("Deleting empty directory", lf.Path(filepath.ToSlash(filepath.Dir(name))))
		_ = os.Remove(dir)
	}
	return nil
}

func (g *Generator) deletePostOutput(name string) error {
	return g.deleteOutput(postOutputName(name))
}

// postOutputName maps a post source path to its generated location:
// posts/<name>.md becomes posts/<name>.html under the output tree.
func postOutputName(name string) string {
	trimmed := strings.TrimSuffix(name, path.Ext(name))
	return path.Join("posts", trimmed+".html")
}
