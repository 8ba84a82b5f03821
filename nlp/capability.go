// Package nlp 封装关键词提取和选片依赖的语言能力：分词标注、实体识别、语义相似度。
// 具体实现可替换，选片算法只依赖 Capability 接口。
package nlp

import "context"

// 实体类别
const (
	LabelPerson   = "PERSON"
	LabelNORP     = "NORP" // 国籍、宗教或政治团体
	LabelFacility = "FAC"
	LabelOrg      = "ORG"
	LabelGPE      = "GPE" // 国家、城市等地缘政治实体
	LabelLocation = "LOC"
	LabelProduct  = "PRODUCT"
	LabelEvent    = "EVENT"
)

// Token 带词性标注（Penn Treebank）的词
type Token struct {
	Text string
	Tag  string
}

// Entity 命名实体
type Entity struct {
	Text  string
	Label string
}

// Tagger 分词、词性标注和实体识别，不返回错误，无法处理的输入返回空结果
type Tagger interface {
	Tag(text string) []Token
	Entities(text string) []Entity
}

// Scorer 计算两段文本的语义相似度，取值[0,1]，满足对称性
type Scorer interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// Capability 选片所需的全部语言能力
type Capability interface {
	Tagger
	Scorer
}

// Engine 组合一个Tagger和一个Scorer
type Engine struct {
	Tagger
	Scorer
}

func New(tagger Tagger, scorer Scorer) *Engine {
	return &Engine{Tagger: tagger, Scorer: scorer}
}
