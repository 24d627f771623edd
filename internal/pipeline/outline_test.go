package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ppt-architect/internal/types"
)

type fakeOutlineGenerator struct {
	content    string
	slideCount *int
	outline    *types.Outline
	err        error
	closed     bool
}

func (f *fakeOutlineGenerator) Generate(_ context.Context, content string, slideCount *int) (*types.Outline, error) {
	f.content = content
	f.slideCount = slideCount
	return f.outline, f.err
}

func (f *fakeOutlineGenerator) Model() string { return "fake-model" }

func (f *fakeOutlineGenerator) Close() error {
	f.closed = true
	return nil
}

func TestRunOutline_RequiresContent(t *testing.T) {
	_, err := RunOutline(context.Background(), OutlineOptions{})
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestRunOutline_Model(t *testing.T) {
	out := demoOutline()
	gen := &fakeOutlineGenerator{outline: &out}
	count := 6

	outline, err := RunOutline(context.Background(), OutlineOptions{
		Content:    "  新能源汽车市场\n\n\n\n分析  ",
		SlideCount: &count,
		MaxSlides:  2,
		Generator:  gen,
	})
	require.NoError(t, err)

	assert.Equal(t, "新能源汽车市场\n\n分析", gen.content)
	assert.Equal(t, &count, gen.slideCount)
	assert.Len(t, outline.Slides, 2)
	assert.True(t, gen.closed)
}

func TestRunOutline_ModelError(t *testing.T) {
	gen := &fakeOutlineGenerator{err: errors.New("rate limited")}
	_, err := RunOutline(context.Background(), OutlineOptions{Content: "some content here", Generator: gen})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fake-model")
	assert.True(t, gen.closed)
}

func TestRunOutline_Markdown(t *testing.T) {
	gen := &fakeOutlineGenerator{}
	outline, err := RunOutline(context.Background(), OutlineOptions{
		Content:   "# 年度总结\n\n## 成果\n\n- 收入翻倍\n\n## 计划\n\n- 出海\n",
		Markdown:  true,
		Generator: gen,
	})
	require.NoError(t, err)
	assert.Equal(t, "年度总结", outline.Title)
	assert.Len(t, outline.Slides, 2)
	assert.Empty(t, gen.content, "markdown path does not call the model")
}

func TestRunOutline_MarkdownWithoutTitle(t *testing.T) {
	_, err := RunOutline(context.Background(), OutlineOptions{Content: "## only a slide", Markdown: true})
	assert.Error(t, err)
}
