package nlp

import (
	"context"
	"math"
	"strings"
	"unicode"
)

// LexicalScorer 离线相似度：对两段文本的词干集合计算余弦相似度（Ochiai系数）。
// 结果对称，相同文本为1，任一侧没有有效词时为0。
type LexicalScorer struct{}

func NewLexicalScorer() *LexicalScorer {
	return &LexicalScorer{}
}

func (s *LexicalScorer) Similarity(_ context.Context, a, b string) (float64, error) {
	return lexicalSimilarity(a, b), nil
}

func lexicalSimilarity(a, b string) float64 {
	setA := termSet(a)
	setB := termSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for term := range setA {
		if _, ok := setB[term]; ok {
			shared++
		}
	}
	score := float64(shared) / math.Sqrt(float64(len(setA))*float64(len(setB)))
	return math.Min(score, 1)
}

// Terms 把文本切分为去停用词、小写、去词尾后的词
func Terms(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	terms := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < 2 || IsStopWord(w) {
			continue
		}
		terms = append(terms, stem(w))
	}
	return terms
}

func termSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range Terms(text) {
		set[t] = struct{}{}
	}
	return set
}

// stem 简单去除常见英文词尾，让 waves/wave、running/run 可以匹配
func stem(w string) string {
	switch {
	case len(w) > 5 && strings.HasSuffix(w, "ing"):
		w = strings.TrimSuffix(w, "ing")
		if n := len(w); n > 2 && w[n-1] == w[n-2] {
			w = w[:n-1]
		}
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		w = strings.TrimSuffix(w, "ies") + "y"
	case len(w) > 4 && strings.HasSuffix(w, "ed"):
		w = strings.TrimSuffix(w, "ed")
	case len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		w = strings.TrimSuffix(w, "s")
	}
	return strings.TrimSuffix(w, "e")
}
