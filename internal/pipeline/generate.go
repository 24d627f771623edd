// Package pipeline orchestrates outline generation and deck rendering.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ppt-architect/internal/convert"
	"github.com/jonathan/ppt-architect/internal/rendering"
	"github.com/jonathan/ppt-architect/internal/tasks"
	"github.com/jonathan/ppt-architect/internal/types"
)

// Progress checkpoints of a generation run.
const (
	ProgressStarted  = 10
	ProgressTemplate = 30
	ProgressRendered = 90
	ProgressDone     = 100
)

// ProgressEvent represents a progress update during generation
type ProgressEvent struct {
	TaskID   string           `json:"task_id"`
	Status   types.TaskStatus `json:"status"`
	Progress int              `json:"progress"`
	Message  string           `json:"message"`
}

// ProgressCallback is called when generation progress occurs
type ProgressCallback func(event ProgressEvent)

// PDFExporter converts a saved deck to PDF.
type PDFExporter interface {
	Convert(ctx context.Context, input string, target convert.Format, outputDir string) (string, error)
}

// Previewer rasterises a saved deck.
type Previewer interface {
	Preview(ctx context.Context, deck, dir string, opts convert.PreviewOptions) ([]string, error)
}

// GenerateOptions holds configuration for one deck generation
type GenerateOptions struct {
	TaskID       string
	Outline      types.Outline
	Theme        string
	TemplateID   string
	TemplatesDir string
	OutputDir    string

	// Preview renders slide 1 to PNG through Previewer after the save.
	Preview      bool
	Previewer    Previewer
	PreviewWidth int
	// PDF exports the deck through PDFExporter after the save.
	PDF         bool
	PDFExporter PDFExporter

	// Store, when set, receives every progress change of TaskID.
	Store      tasks.Store
	OnProgress ProgressCallback
	Logger     *log.Logger
	Now        func() time.Time
}

// GenerateResult lists the files a generation produced.
type GenerateResult struct {
	FilePath    string
	PreviewPath string
	PDFPath     string
}

// OutputName returns the deck file name for a task started at t.
func OutputName(taskID string, t time.Time) string {
	short := taskID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("ppt_%s_%s.pptx", t.Format("20060102_150405"), short)
}

// TemplatePath returns the stored template file for id, or "" when id is
// empty or the file is missing.
func TemplatePath(templatesDir, id string) string {
	if id == "" || templatesDir == "" {
		return ""
	}
	// ids are generated uuids; reject anything that could leave the directory
	if filepath.Base(id) != id {
		return ""
	}
	path := filepath.Join(templatesDir, id+".pptx")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// generation carries one run's options plus its resolved logger.
type generation struct {
	opts   GenerateOptions
	logger *log.Logger
}

func (g *generation) progress(ctx context.Context, progress int, message string) {
	if g.opts.Store != nil && g.opts.TaskID != "" {
		if _, err := tasks.SetProgress(ctx, g.opts.Store, g.opts.TaskID, progress, message); err != nil {
			g.logger.Printf("[pipeline] task %s: failed to record progress: %v", g.opts.TaskID, err)
		}
	}
	g.emit(types.TaskProcessing, progress, message)
}

func (g *generation) emit(status types.TaskStatus, progress int, message string) {
	if g.opts.OnProgress != nil {
		g.opts.OnProgress(ProgressEvent{
			TaskID:   g.opts.TaskID,
			Status:   status,
			Progress: progress,
			Message:  message,
		})
	}
}

// RunGeneration renders the outline into a deck and runs the post-save
// branches. On failure the task is marked failed with the error message.
func RunGeneration(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	g := &generation{opts: opts, logger: opts.Logger}
	if g.logger == nil {
		g.logger = log.New(io.Discard, "", 0)
	}

	result, err := g.run(ctx)
	if err != nil {
		g.logger.Printf("[pipeline] task %s failed: %v", opts.TaskID, err)
		if opts.Store != nil && opts.TaskID != "" {
			if _, storeErr := tasks.Fail(ctx, opts.Store, opts.TaskID, err); storeErr != nil {
				g.logger.Printf("[pipeline] task %s: failed to record failure: %v", opts.TaskID, storeErr)
			}
		}
		g.emit(types.TaskFailed, 0, err.Error())
		return nil, err
	}

	if opts.Store != nil && opts.TaskID != "" {
		if _, err := tasks.Complete(ctx, opts.Store, opts.TaskID, result.FilePath, result.PreviewPath, result.PDFPath); err != nil {
			g.logger.Printf("[pipeline] task %s: failed to record completion: %v", opts.TaskID, err)
		}
	}
	g.emit(types.TaskCompleted, ProgressDone, "PPT 生成完成")
	return result, nil
}

func (g *generation) run(ctx context.Context) (*GenerateResult, error) {
	opts := g.opts
	if err := opts.Outline.Validate(); err != nil {
		return nil, err
	}
	if opts.OutputDir == "" {
		return nil, errors.New("output directory is required")
	}

	start := time.Now()
	g.progress(ctx, ProgressStarted, "开始生成 PPT")

	var genOpts []rendering.Option
	genOpts = append(genOpts, rendering.WithLogger(g.logger))
	templatePath := TemplatePath(opts.TemplatesDir, opts.TemplateID)
	if templatePath != "" {
		genOpts = append(genOpts, rendering.WithTemplatePath(templatePath))
	} else if opts.TemplateID != "" {
		g.logger.Printf("[pipeline] template %s not found, using theme %q", opts.TemplateID, opts.Theme)
	}
	gen := rendering.NewGenerator(opts.Theme, genOpts...)
	g.progress(ctx, ProgressTemplate, "模板已就绪，正在渲染幻灯片")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	outPath := filepath.Join(opts.OutputDir, OutputName(opts.TaskID, now()))
	filePath, err := gen.Generate(opts.Outline, outPath)
	if err != nil {
		return nil, err
	}
	g.progress(ctx, ProgressRendered, "幻灯片已保存，正在生成预览")

	result := &GenerateResult{FilePath: filePath}
	g.postSave(ctx, result)

	g.logger.Printf("[pipeline] task %s: %d slides written to %s in %s",
		opts.TaskID, len(opts.Outline.Slides), filePath, time.Since(start).Round(time.Millisecond))
	return result, nil
}

// postSave runs the preview and PDF branches in parallel. Branch failures
// are logged and leave the corresponding result path empty.
func (g *generation) postSave(ctx context.Context, result *GenerateResult) {
	opts := g.opts
	eg, egCtx := errgroup.WithContext(ctx)

	if opts.Preview && opts.Previewer != nil {
		eg.Go(func() error {
			dir := filepath.Join(opts.OutputDir, "previews", previewDirName(opts.TaskID, result.FilePath))
			paths, err := opts.Previewer.Preview(egCtx, result.FilePath, dir, convert.PreviewOptions{
				Width:    opts.PreviewWidth,
				MaxPages: 1,
			})
			if err != nil || len(paths) == 0 {
				g.logger.Printf("[pipeline] task %s: preview failed: %v", opts.TaskID, err)
				return nil
			}
			result.PreviewPath = paths[0]
			return nil
		})
	}

	if opts.PDF && opts.PDFExporter != nil {
		eg.Go(func() error {
			pdfPath, err := opts.PDFExporter.Convert(egCtx, result.FilePath, convert.FormatPDF, opts.OutputDir)
			if err != nil {
				g.logger.Printf("[pipeline] task %s: pdf export failed: %v", opts.TaskID, err)
				return nil
			}
			result.PDFPath = pdfPath
			return nil
		})
	}

	_ = eg.Wait()
}

func previewDirName(taskID, filePath string) string {
	if taskID != "" {
		return taskID
	}
	base := filepath.Base(filePath)
	return base[:len(base)-len(filepath.Ext(base))]
}
