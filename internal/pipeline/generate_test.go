package pipeline

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	ppt "github.com/VantageDataChat/GoPPT"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ppt-architect/internal/convert"
	"github.com/jonathan/ppt-architect/internal/tasks"
	"github.com/jonathan/ppt-architect/internal/types"
)

func demoOutline() types.Outline {
	return types.Outline{
		Title: "新能源汽车市场分析",
		Slides: []types.SlideContent{
			{Title: "市场概览", Layout: types.LayoutBullets, BulletPoints: []string{"销量增长 35%", "渗透率突破 30%"}},
			{Title: "区域销量", Layout: types.LayoutColumnChart, DataPoints: types.DataPoints{
				types.Scalar{Label: "华东", Value: types.Float(35)},
				types.Scalar{Label: "华南", Value: types.Float(25)},
			}},
			{Title: "谢谢", Layout: types.LayoutThanks},
		},
	}
}

type fakeExporter struct {
	err   error
	calls int
	mu    sync.Mutex
}

func (f *fakeExporter) Convert(_ context.Context, input string, target convert.Format, outputDir string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	out := filepath.Join(outputDir, "deck."+string(target))
	if err := os.WriteFile(out, []byte("%PDF"), 0644); err != nil {
		return "", err
	}
	return out, nil
}

func TestOutputName(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, "ppt_20240309_140507_1234abcd.pptx", OutputName("1234abcd-5678-90ef", at))
	assert.Equal(t, "ppt_20240309_140507_abc.pptx", OutputName("abc", at))
}

func TestTemplatePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "brand.pptx"), []byte("x"), 0644))

	assert.Equal(t, filepath.Join(dir, "brand.pptx"), TemplatePath(dir, "brand"))
	assert.Empty(t, TemplatePath(dir, "missing"))
	assert.Empty(t, TemplatePath(dir, ""))
	assert.Empty(t, TemplatePath("", "brand"))
	assert.Empty(t, TemplatePath(dir, "../brand"))
}

func TestRunGeneration_Progress(t *testing.T) {
	ctx := context.Background()
	store := tasks.NewMemoryStore()
	task := tasks.NewTask("新能源汽车市场分析", "tech", "")
	require.NoError(t, store.Create(ctx, task))

	var events []ProgressEvent
	exporter := &fakeExporter{}
	outDir := t.TempDir()

	result, err := RunGeneration(ctx, GenerateOptions{
		TaskID:      task.ID,
		Outline:     demoOutline(),
		Theme:       "tech",
		OutputDir:   outDir,
		PDF:         true,
		PDFExporter: exporter,
		Store:       store,
		OnProgress:  func(e ProgressEvent) { events = append(events, e) },
		Now:         func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(outDir, "ppt_20240102_030405_"+task.ID[:8]+".pptx"), result.FilePath)
	assert.FileExists(t, result.FilePath)
	assert.FileExists(t, result.PDFPath)
	assert.Equal(t, 1, exporter.calls)

	var progress []int
	for _, e := range events {
		progress = append(progress, e.Progress)
	}
	assert.Equal(t, []int{ProgressStarted, ProgressTemplate, ProgressRendered, ProgressDone}, progress)
	assert.Equal(t, types.TaskCompleted, events[len(events)-1].Status)

	stored, err := store.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TaskCompleted, stored.Status)
	assert.Equal(t, 100, stored.Progress)
	assert.Equal(t, result.FilePath, stored.FilePath)
	assert.Equal(t, result.PDFPath, stored.PDFPath)

	p, err := ppt.Open(result.FilePath)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p.GetSlideCount(), 3)
}

func TestRunGeneration_PDFFailureIsNotFatal(t *testing.T) {
	result, err := RunGeneration(context.Background(), GenerateOptions{
		TaskID:      "task-pdf-fails",
		Outline:     demoOutline(),
		OutputDir:   t.TempDir(),
		PDF:         true,
		PDFExporter: &fakeExporter{err: errors.New("soffice missing")},
	})
	require.NoError(t, err)
	assert.FileExists(t, result.FilePath)
	assert.Empty(t, result.PDFPath)
}

// fakePreviewer writes one real PNG per requested page.
type fakePreviewer struct {
	err  error
	deck string
	opts convert.PreviewOptions
}

func (f *fakePreviewer) Preview(_ context.Context, deck, dir string, opts convert.PreviewOptions) ([]string, error) {
	f.deck, f.opts = deck, opts
	if f.err != nil {
		return nil, f.err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	out := filepath.Join(dir, "slide_001.png")
	file, err := os.Create(out)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return []string{out}, png.Encode(file, image.NewRGBA(image.Rect(0, 0, 16, 9)))
}

func TestRunGeneration_Preview(t *testing.T) {
	previewer := &fakePreviewer{}
	outDir := t.TempDir()
	result, err := RunGeneration(context.Background(), GenerateOptions{
		TaskID:       "task-preview",
		Outline:      demoOutline(),
		OutputDir:    outDir,
		Preview:      true,
		Previewer:    previewer,
		PreviewWidth: 640,
	})
	require.NoError(t, err)

	assert.Equal(t, result.FilePath, previewer.deck, "the saved deck is rasterised")
	assert.Equal(t, convert.PreviewOptions{Width: 640, MaxPages: 1}, previewer.opts)
	assert.Equal(t, filepath.Join(outDir, "previews", "task-preview", "slide_001.png"), result.PreviewPath)

	f, err := os.Open(result.PreviewPath)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.DecodeConfig(f)
	assert.NoError(t, err)
}

func TestRunGeneration_PreviewFailureIsNotFatal(t *testing.T) {
	result, err := RunGeneration(context.Background(), GenerateOptions{
		TaskID:    "task-preview-fail",
		Outline:   demoOutline(),
		OutputDir: t.TempDir(),
		Preview:   true,
		Previewer: &fakePreviewer{err: errors.New("soffice missing")},
	})
	require.NoError(t, err)
	assert.FileExists(t, result.FilePath)
	assert.Empty(t, result.PreviewPath)
}

func TestRunGeneration_MissingTemplateFallsBack(t *testing.T) {
	result, err := RunGeneration(context.Background(), GenerateOptions{
		TaskID:       "task-template",
		Outline:      demoOutline(),
		TemplateID:   "does-not-exist",
		TemplatesDir: t.TempDir(),
		OutputDir:    t.TempDir(),
	})
	require.NoError(t, err)
	assert.FileExists(t, result.FilePath)
}

func TestRunGeneration_InvalidOutlineFailsTask(t *testing.T) {
	ctx := context.Background()
	store := tasks.NewMemoryStore()
	task := tasks.NewTask("", "", "")
	require.NoError(t, store.Create(ctx, task))

	var last ProgressEvent
	_, err := RunGeneration(ctx, GenerateOptions{
		TaskID:     task.ID,
		Outline:    types.Outline{},
		OutputDir:  t.TempDir(),
		Store:      store,
		OnProgress: func(e ProgressEvent) { last = e },
	})
	require.Error(t, err)

	stored, getErr := store.Get(ctx, task.ID)
	require.NoError(t, getErr)
	assert.Equal(t, types.TaskFailed, stored.Status)
	assert.Contains(t, stored.Message, "invalid outline")
	assert.Equal(t, types.TaskFailed, last.Status)
}

func TestRunGeneration_RequiresOutputDir(t *testing.T) {
	_, err := RunGeneration(context.Background(), GenerateOptions{Outline: demoOutline()})
	assert.Error(t, err)
}

func TestRunGeneration_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunGeneration(ctx, GenerateOptions{
		TaskID:    "task-cancel",
		Outline:   demoOutline(),
		OutputDir: t.TempDir(),
	})
	assert.ErrorIs(t, err, context.Canceled)
}
