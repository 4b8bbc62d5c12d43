package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"text/template"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avnt-sistemas/fac"
)

// TemplateWriter generates files using templates with parallel execution.
type TemplateWriter struct {
	graph   *Graph
	tmpl    *template.Template
	outDir  string
	workers int

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks generation performance
type WriterMetrics struct {
	FilesGenerated int
	FilesUnchanged int
	TotalBytes     int64
	TemplateTime   time.Duration
	WriteTime      time.Duration
}

// NewTemplateWriter creates a new template-based writer.
func NewTemplateWriter(g *Graph, outDir string) *TemplateWriter {
	return &TemplateWriter{
		graph:   g,
		tmpl:    templates,
		outDir:  outDir,
		workers: runtime.GOMAXPROCS(0),
		metrics: &WriterMetrics{},
	}
}

// WithWorkers sets the number of parallel workers.
func (w *TemplateWriter) WithWorkers(n int) *TemplateWriter {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns the generation metrics.
func (w *TemplateWriter) Metrics() *WriterMetrics {
	return w.metrics
}

// fileTask represents a single file generation task.
type fileTask struct {
	name     string // output file path (relative to outDir)
	template string // template name to execute
	data     any    // data to pass to template
}

// tasks returns the files the writer generates, per-module files first in
// generation order, then graph-level files.
func (w *TemplateWriter) tasks() []fileTask {
	var files []fileTask
	for _, t := range w.graph.Nodes {
		for _, tmpl := range Templates {
			if tmpl.Cond != nil && !tmpl.Cond(t) {
				continue
			}
			files = append(files, fileTask{
				name:     tmpl.Format(t),
				template: tmpl.Name,
				data:     t,
			})
		}
	}
	for _, tmpl := range GraphTemplates {
		if tmpl.Skip != nil && tmpl.Skip(w.graph) {
			continue
		}
		files = append(files, fileTask{
			name:     tmpl.Format,
			template: tmpl.Name,
			data:     w.graph,
		})
	}
	return files
}

// GenerateAll generates all files using templates in parallel.
func (w *TemplateWriter) GenerateAll(ctx context.Context) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, f := range w.tasks() {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.generateFile(f)
			}
		})
	}
	return eg.Wait()
}

// generateFile generates a single file.
func (w *TemplateWriter) generateFile(f fileTask) error {
	start := time.Now()
	var buf bytes.Buffer
	if err := w.tmpl.ExecuteTemplate(&buf, f.template, f.data); err != nil {
		return fac.NewGenerationError("template", f.name, fmt.Sprintf("execute %q", f.template), err)
	}
	content := buf.Bytes()
	if path.Ext(f.name) == ".dart" {
		content = tidy(content)
	}
	rendered := time.Since(start)

	start = time.Now()
	fullPath := filepath.Join(w.outDir, filepath.FromSlash(f.name))
	if old, err := os.ReadFile(fullPath); err == nil && bytes.Equal(old, content) {
		w.mu.Lock()
		w.metrics.FilesUnchanged++
		w.metrics.TemplateTime += rendered
		w.mu.Unlock()
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fac.NewGenerationError("write", f.name, "create directory", err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return fac.NewGenerationError("write", f.name, "", err)
	}

	w.mu.Lock()
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += int64(len(content))
	w.metrics.TemplateTime += rendered
	w.metrics.WriteTime += time.Since(start)
	w.mu.Unlock()
	return nil
}

// tidy strips trailing whitespace from every line and ends the file with a
// single newline.
func tidy(b []byte) []byte {
	lines := strings.Split(string(b), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	return []byte(strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n")
}
