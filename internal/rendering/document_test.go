package rendering

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePackage(t *testing.T, parts map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.pptx")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	zw := zip.NewWriter(f)
	for name, body := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

const layoutXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sldLayout xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
  xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" %s>
  <p:cSld name="%s"><p:spTree/></p:cSld>
</p:sldLayout>`

func TestReadLayoutCatalog(t *testing.T) {
	path := writePackage(t, map[string]string{
		"ppt/slideLayouts/slideLayout10.xml":           fmt.Sprintf(layoutXML, `type="blank"`, "Blank"),
		"ppt/slideLayouts/slideLayout2.xml":            fmt.Sprintf(layoutXML, `type="obj"`, "Title and Content"),
		"ppt/slideLayouts/slideLayout1.xml":            fmt.Sprintf(layoutXML, `type="title"`, "Title Slide"),
		"ppt/slideLayouts/slideLayout3.xml":            fmt.Sprintf(layoutXML, ``, "感谢页"),
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels": "<Relationships/>",
		"ppt/presentation.xml":                         "<p:presentation/>",
	})

	catalog, err := readLayoutCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog, 4)

	assert.Equal(t, "Title Slide", catalog[0].Name)
	assert.Equal(t, "title", catalog[0].Type)
	assert.Equal(t, "Title and Content", catalog[1].Name)
	assert.Equal(t, "感谢页", catalog[2].Name)
	assert.Equal(t, "cust", catalog[2].Type)
	assert.Equal(t, "Blank", catalog[3].Name)
}

func TestReadLayoutCatalog_NotAPackage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0644))

	_, err := readLayoutCatalog(path)
	assert.Error(t, err)
}

func TestLoadTemplate_Missing(t *testing.T) {
	_, err := loadTemplate(filepath.Join(t.TempDir(), "nope.pptx"))
	require.Error(t, err)

	var tmplErr *TemplateError
	assert.ErrorAs(t, err, &tmplErr)
}
