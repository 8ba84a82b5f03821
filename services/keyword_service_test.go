package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"video_matcher/nlp"
)

func TestExtract(t *testing.T) {
	tagger := &fakeTagger{
		entities: []nlp.Entity{
			{Text: "Paris", Label: nlp.LabelGPE},
			{Text: "Monday", Label: "DATE"},
			{Text: "Eiffel Tower", Label: nlp.LabelFacility},
		},
		tokens: []nlp.Token{
			{Text: "The", Tag: "DT"},
			{Text: "tower", Tag: "NN"},
			{Text: "glows", Tag: "VBZ"},
			{Text: "bright", Tag: "JJ"},
			{Text: "quickly", Tag: "RB"},
			{Text: "over", Tag: "IN"},
			{Text: "Paris", Tag: "NNP"},
			{Text: "it", Tag: "PRP"},
			{Text: "were", Tag: "VBD"}, // 停用词
			{Text: "3D", Tag: "NN"},
			{Text: ".", Tag: "."},
		},
	}
	e := NewKeywordExtractor(tagger)

	got := e.Extract("The Eiffel Tower glows bright over Paris.")
	assert.Equal(t, []string{"Paris", "Eiffel Tower", "tower", "glows", "bright", "Paris"}, got)
}

func TestExtractEmptyText(t *testing.T) {
	e := NewKeywordExtractor(nouns("never"))

	assert.Equal(t, []string{}, e.Extract(""))
	assert.Equal(t, []string{}, e.Extract("   \n"))
}

func TestExtractNoKeywords(t *testing.T) {
	e := NewKeywordExtractor(&fakeTagger{tokens: []nlp.Token{{Text: "the", Tag: "DT"}}})

	got := e.Extract("the")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTopKeywords(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		n        int
		want     []string
	}{
		{
			name:     "按次数排序",
			keywords: []string{"sea", "sun", "sun", "sand", "sun", "sand"},
			n:        5,
			want:     []string{"sun", "sand", "sea"},
		},
		{
			name:     "次数相同按首次出现顺序",
			keywords: []string{"f", "e", "d", "c", "b", "a", "a"},
			n:        5,
			want:     []string{"a", "f", "e", "d", "c"},
		},
		{
			name:     "空输入",
			keywords: nil,
			n:        5,
			want:     []string{},
		},
		{
			name:     "区分大小写",
			keywords: []string{"Paris", "paris"},
			n:        5,
			want:     []string{"Paris", "paris"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopKeywords(tt.keywords, tt.n)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), tt.n)
		})
	}
}
