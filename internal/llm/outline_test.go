package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ppt-architect/internal/schemas"
	"github.com/jonathan/ppt-architect/internal/types"
)

// fakeClient replays a canned reply and records the prompt it was given.
type fakeClient struct {
	reply  string
	err    error
	prompt Prompt
	closed bool
}

func (f *fakeClient) GenerateContent(_ context.Context, p Prompt, _ ModelTier) (string, error) {
	f.prompt = p
	return f.reply, f.err
}

func (f *fakeClient) GenerateJSON(ctx context.Context, p Prompt, tier ModelTier) (string, error) {
	text, err := f.GenerateContent(ctx, p, tier)
	return CleanJSONBlock(text), err
}

func (f *fakeClient) GetModel(ModelTier) string { return "fake-model" }

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

const cannedOutline = "好的！\n```json\n" + `{
  "title": "新能源汽车市场分析",
  "slides": [
    {"title": "市场规模", "layout": "big_number", "icon": "📈",
     "bullet_points": ["2024 年销量突破 1000 万辆"], "data_points": [{"label": "销量", "value": 1000}]},
    {"title": "品牌份额", "layout": "pie_chart",
     "data_points": [{"label": "比亚迪", "value": 35}, {"label": "特斯拉", "value": 12}]},
    {"title": "发展路线", "layout": "Two-Column", "bullet_points": ["a", "b", "c"]},
    {"title": "谢谢", "layout": "thanks"}
  ]
}` + "\n```"

func TestBuildOutlinePrompt(t *testing.T) {
	n := 10
	p, err := BuildOutlinePrompt("新能源汽车", &n)
	require.NoError(t, err)

	assert.Contains(t, p.System, "请生成正好 10 页幻灯片（不含标题页和致谢页）。")
	assert.Contains(t, p.System, "title | bullets | column | process")
	assert.NotContains(t, p.System, "{{.")
	assert.Equal(t, "请为以下主题生成 PPT 大纲：\n\n新能源汽车", p.User)

	p, err = BuildOutlinePrompt("新能源汽车", nil)
	require.NoError(t, err)
	assert.Contains(t, p.System, "请生成 8-12 页幻灯片（不含标题页和致谢页）。")
}

func TestOutlineGenerator_Generate(t *testing.T) {
	client := &fakeClient{reply: cannedOutline}
	gen := NewOutlineGeneratorWithClient(client, 0)

	outline, err := gen.Generate(context.Background(), "新能源汽车市场", nil)
	require.NoError(t, err)

	assert.Equal(t, "新能源汽车市场分析", outline.Title)
	require.Len(t, outline.Slides, 4)
	assert.Equal(t, types.LayoutBigNumber, outline.Slides[0].Layout)
	assert.Equal(t, types.LayoutPieChart, outline.Slides[1].Layout)
	assert.Equal(t, types.LayoutColumn, outline.Slides[2].Layout)
	assert.Len(t, outline.Slides[1].DataPoints, 2)
	assert.Contains(t, client.prompt.User, "新能源汽车市场")
}

func TestOutlineGenerator_TruncatesToMaxSlides(t *testing.T) {
	gen := NewOutlineGeneratorWithClient(&fakeClient{reply: cannedOutline}, 2)

	outline, err := gen.Generate(context.Background(), "content", nil)
	require.NoError(t, err)
	require.Len(t, outline.Slides, 2)
	assert.Equal(t, "品牌份额", outline.Slides[1].Title)
}

func TestOutlineGenerator_ProviderFailure(t *testing.T) {
	boom := errors.New("rate limited")
	gen := NewOutlineGeneratorWithClient(&fakeClient{err: boom}, 0)

	_, err := gen.Generate(context.Background(), "content", nil)
	assert.ErrorIs(t, err, boom)
}

func TestOutlineGenerator_BadReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"no json", "抱歉，我无法完成"},
		{"schema violation", `{"title": "t", "slides": [{"layout": "bullets"}]}`},
		{"broken json", `{"title": "t", "slides": [}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewOutlineGeneratorWithClient(&fakeClient{reply: tt.reply}, 0)
			_, err := gen.Generate(context.Background(), "content", nil)

			var providerErr *ProviderError
			require.ErrorAs(t, err, &providerErr)
			assert.Equal(t, "fake-model", providerErr.Model)
		})
	}
}

func TestParseOutline_SchemaErrorsSurface(t *testing.T) {
	_, err := ParseOutline(`{"title": "t", "slides": [{"title": "x", "data_points": [{"value": "high"}]}]}`)
	var validationErr *schemas.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestOutlineGenerator_Close(t *testing.T) {
	client := &fakeClient{}
	gen := NewOutlineGeneratorWithClient(client, 0)
	assert.Equal(t, "fake-model", gen.Model())
	require.NoError(t, gen.Close())
	assert.True(t, client.closed)
}

func TestNewOutlineGenerator_MissingKey(t *testing.T) {
	_, err := NewOutlineGenerator(context.Background(), "", Keys{}, 50)
	var providerErr *ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, DefaultModel, providerErr.Model)
}
