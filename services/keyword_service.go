package services

import (
	"sort"
	"strings"
	"unicode"

	"video_matcher/nlp"
)

// 参与关键词提取的实体类别
var keywordEntityLabels = map[string]bool{
	nlp.LabelPerson:   true,
	nlp.LabelNORP:     true,
	nlp.LabelFacility: true,
	nlp.LabelOrg:      true,
	nlp.LabelGPE:      true,
	nlp.LabelLocation: true,
	nlp.LabelProduct:  true,
	nlp.LabelEvent:    true,
}

// 参与关键词提取的词性：名词、专有名词、动词各时态、词缀形容词、形容词
var keywordTags = map[string]bool{
	"NN": true, "NNS": true, "NNP": true, "NNPS": true,
	"VB": true, "VBD": true, "VBG": true, "VBP": true, "VBZ": true,
	"AFX": true, "JJ": true,
}

// KeywordExtractor 从文本中提取实体和实词作为关键词
type KeywordExtractor struct {
	tagger nlp.Tagger
}

func NewKeywordExtractor(tagger nlp.Tagger) *KeywordExtractor {
	return &KeywordExtractor{tagger: tagger}
}

// Extract 返回实体（按出现顺序）加实词（按出现顺序），两组之间不去重。
// 不会失败，无法提取时返回空列表
func (e *KeywordExtractor) Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	keywords := make([]string, 0)
	for _, ent := range e.tagger.Entities(text) {
		if keywordEntityLabels[ent.Label] && strings.TrimSpace(ent.Text) != "" {
			keywords = append(keywords, ent.Text)
		}
	}
	for _, tok := range e.tagger.Tag(text) {
		if isAlpha(tok.Text) && !nlp.IsStopWord(tok.Text) && keywordTags[tok.Tag] {
			keywords = append(keywords, tok.Text)
		}
	}
	return keywords
}

// TopKeywords 返回出现次数最多的n个关键词，次数相同按首次出现顺序
func TopKeywords(keywords []string, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, kw := range keywords {
		if _, ok := counts[kw]; !ok {
			order = append(order, kw)
		}
		counts[kw]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if n >= 0 && len(order) > n {
		order = order[:n]
	}
	if order == nil {
		return []string{}
	}
	return order
}

// isAlpha 非空且全部为字母
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
