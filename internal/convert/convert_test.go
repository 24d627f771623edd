package convert

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ppt "github.com/VantageDataChat/GoPPT"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records calls and lets each test decide what a tool does.
type fakeRunner struct {
	calls  []string
	handle func(name string, args []string) (string, error)
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	if f.handle == nil {
		return "", nil
	}
	return f.handle(name, args)
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// sofficeWrites emulates LibreOffice writing <base>.<target> into --outdir.
func sofficeWrites(t *testing.T) func(string, []string) (string, error) {
	return func(name string, args []string) (string, error) {
		if name != "soffice" {
			return "", errors.New("unexpected tool " + name)
		}
		input := args[len(args)-1]
		target := argAfter(args, "--convert-to")
		out := outputPath(input, argAfter(args, "--outdir"), Format(target))
		require.NoError(t, os.WriteFile(out, []byte("converted"), 0644))
		return "convert ok", nil
	}
}

func writeInput(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("input"), 0644))
	return path
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatPDF, ParseFormat(".PDF"))
	assert.Equal(t, FormatDOCX, ParseFormat(" docx "))
	assert.Equal(t, FormatPPTX, FormatOf("/tmp/deck.pptx"))
}

func TestSupported(t *testing.T) {
	tests := []struct {
		from, to Format
		want     bool
	}{
		{FormatPPTX, FormatPDF, true},
		{FormatPPT, FormatPDF, true},
		{FormatDOCX, FormatPDF, true},
		{FormatDOC, FormatPDF, true},
		{FormatPDF, FormatDOCX, true},
		{FormatPDF, FormatPPTX, true},
		{FormatPDF, FormatPDF, false},
		{FormatDOCX, FormatPPTX, false},
		{Format("txt"), FormatPDF, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_to_%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, Supported(tt.from, tt.to))
		})
	}
}

func TestConvert_Unsupported(t *testing.T) {
	c := New(WithRunner(&fakeRunner{}))
	_, err := c.Convert(context.Background(), writeInput(t, "notes.txt"), FormatPDF, t.TempDir())
	assert.ErrorIs(t, err, ErrUnsupportedConversion)
}

func TestConvert_MissingInput(t *testing.T) {
	c := New(WithRunner(&fakeRunner{}))
	_, err := c.Convert(context.Background(), "/nonexistent/deck.pptx", FormatPDF, t.TempDir())

	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConvert_PresentationToPDF(t *testing.T) {
	runner := &fakeRunner{}
	runner.handle = sofficeWrites(t)
	c := New(WithRunner(runner))

	outDir := t.TempDir()
	out, err := c.Convert(context.Background(), writeInput(t, "deck.pptx"), FormatPDF, outDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(outDir, "deck.pdf"), out)
	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0], "soffice --headless --convert-to pdf --outdir")
}

func TestConvert_UnoconvFallback(t *testing.T) {
	runner := &fakeRunner{}
	runner.handle = func(name string, args []string) (string, error) {
		if name == "soffice" {
			return "soffice crashed", errors.New("exit status 1")
		}
		require.Equal(t, "unoconv", name)
		require.NoError(t, os.WriteFile(argAfter(args, "-o"), []byte("%PDF"), 0644))
		return "", nil
	}
	c := New(WithRunner(runner))

	out, err := c.Convert(context.Background(), writeInput(t, "deck.ppt"), FormatPDF, t.TempDir())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "deck.pdf"))
	assert.Len(t, runner.calls, 2)
}

func TestConvert_BothPresentationToolsFail(t *testing.T) {
	runner := &fakeRunner{handle: func(name string, _ []string) (string, error) {
		return name + " failed", errors.New("exit status 1")
	}}
	c := New(WithRunner(runner))

	_, err := c.Convert(context.Background(), writeInput(t, "deck.pptx"), FormatPDF, t.TempDir())

	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, FormatPDF, convErr.Target)
	assert.Equal(t, "unoconv failed", convErr.LogOutput)
}

func TestConvert_PDFToDocx(t *testing.T) {
	runner := &fakeRunner{}
	runner.handle = sofficeWrites(t)
	c := New(WithRunner(runner))

	out, err := c.Convert(context.Background(), writeInput(t, "report.pdf"), FormatDOCX, t.TempDir())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "report.docx"))
	assert.Contains(t, runner.calls[0], "--infilter=writer_pdf_import")
}

func TestConvert_OfficeProducesNothing(t *testing.T) {
	runner := &fakeRunner{handle: func(string, []string) (string, error) { return "warn: no filter", nil }}
	c := New(WithRunner(runner))

	_, err := c.Convert(context.Background(), writeInput(t, "memo.docx"), FormatPDF, t.TempDir())

	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "warn: no filter", convErr.LogOutput)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConvert_PDFToPresentation(t *testing.T) {
	runner := &fakeRunner{}
	runner.handle = func(name string, args []string) (string, error) {
		require.Equal(t, "pdftoppm", name)
		prefix := args[len(args)-1]
		// out of order on disk and zero-padded like pdftoppm
		for _, n := range []string{"10", "02", "01"} {
			writePNG(t, prefix+"-"+n+".png", 160, 90)
		}
		return "", nil
	}
	c := New(WithRunner(runner))

	outDir := t.TempDir()
	out, err := c.Convert(context.Background(), writeInput(t, "slides.pdf"), FormatPPTX, outDir)
	require.NoError(t, err)
	assert.Contains(t, runner.calls[0], "-png -r 150")

	p, err := ppt.Open(out)
	require.NoError(t, err)
	assert.Equal(t, 3, p.GetSlideCount())

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "page images are cleaned up")
}

func TestConvert_PDFToPresentationNoPages(t *testing.T) {
	runner := &fakeRunner{handle: func(string, []string) (string, error) {
		return "Syntax Error", errors.New("exit status 1")
	}}
	c := New(WithRunner(runner))

	_, err := c.Convert(context.Background(), writeInput(t, "broken.pdf"), FormatPPTX, t.TempDir())

	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "pdftoppm produced no pages", convErr.Message)
}

func TestPageImages_Order(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"page-3.png", "page-1.png", "page-12.png", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	pages, err := pageImages(dir)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "page-1.png", filepath.Base(pages[0]))
	assert.Equal(t, "page-12.png", filepath.Base(pages[2]))
}

func TestFit(t *testing.T) {
	w, h := fit(200, 100, 1000, 1000)
	assert.Equal(t, int64(1000), w)
	assert.Equal(t, int64(500), h)

	w, h = fit(100, 200, 1000, 1000)
	assert.Equal(t, int64(500), w)
	assert.Equal(t, int64(1000), h)
}

func TestCountPDFPages(t *testing.T) {
	t.Run("pdfinfo", func(t *testing.T) {
		runner := &fakeRunner{handle: func(name string, _ []string) (string, error) {
			return "Title: deck\nPages:          7\nEncrypted: no\n", nil
		}}
		n, err := New(WithRunner(runner)).CountPDFPages(context.Background(), "deck.pdf")
		require.NoError(t, err)
		assert.Equal(t, 7, n)
	})

	t.Run("ghostscript fallback", func(t *testing.T) {
		runner := &fakeRunner{handle: func(name string, _ []string) (string, error) {
			if name == "pdfinfo" {
				return "", ErrToolNotFound
			}
			return "4\n", nil
		}}
		n, err := New(WithRunner(runner)).CountPDFPages(context.Background(), "deck.pdf")
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})

	t.Run("both fail", func(t *testing.T) {
		runner := &fakeRunner{handle: func(string, []string) (string, error) {
			return "", ErrToolNotFound
		}}
		_, err := New(WithRunner(runner)).CountPDFPages(context.Background(), "deck.pdf")
		assert.ErrorIs(t, err, ErrToolNotFound)
	})
}

func TestExecRunner_MissingTool(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), "definitely-not-a-real-binary-xyz")
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestConversionError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &ConversionError{Input: "a.pptx", Target: FormatPDF, Message: "soffice failed", Cause: cause}
	assert.Contains(t, err.Error(), "a.pptx to pdf")
	assert.ErrorIs(t, err, cause)
}
