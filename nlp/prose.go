package nlp

import (
	"github.com/jdkato/prose/v2"

	"video_matcher/logger"
)

// ProseTagger 基于 prose 的英文分词、词性标注和实体识别。
// prose 只识别 PERSON 和 GPE 两类实体。
type ProseTagger struct{}

func NewProseTagger() *ProseTagger {
	return &ProseTagger{}
}

func (p *ProseTagger) Tag(text string) []Token {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		logger.Warn("分词失败", "error", err)
		return nil
	}

	tokens := make([]Token, 0, len(doc.Tokens()))
	for _, tok := range doc.Tokens() {
		tokens = append(tokens, Token{Text: tok.Text, Tag: tok.Tag})
	}
	return tokens
}

func (p *ProseTagger) Entities(text string) []Entity {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		logger.Warn("实体识别失败", "error", err)
		return nil
	}

	entities := make([]Entity, 0, len(doc.Entities()))
	for _, ent := range doc.Entities() {
		entities = append(entities, Entity{Text: ent.Text, Label: ent.Label})
	}
	return entities
}
