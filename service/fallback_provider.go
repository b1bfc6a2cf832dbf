package service

import (
	"time"

	"genai-news/domain"
)

// FallbackProvider serves a fixed batch of pre-translated sample articles
// when the pipeline fails outright.
type FallbackProvider struct{}

func NewFallbackProvider() *FallbackProvider {
	return &FallbackProvider{}
}

// Articles returns the same three articles in the same order on every call.
// The slice is freshly built so callers may modify it.
func (p *FallbackProvider) Articles() []domain.Article {
	return []domain.Article{
		{
			ID:    "sample-1",
			Title: "Open-weight language models close the gap with proprietary systems",
			OriginalContent: "A new wave of open-weight large language models is narrowing the performance gap with " +
				"proprietary systems on reasoning and coding benchmarks, giving companies more options to run " +
				"generative AI on their own infrastructure.",
			TranslatedContent: "新たに登場したオープンウェイトの大規模言語モデル群が、推論やコーディングのベンチマークにおいて" +
				"プロプライエタリなシステムとの性能差を縮めており、企業が自社のインフラ上で生成AIを運用する選択肢が広がっている。",
			PublishedAt: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
			Source:      "AI Research Weekly",
			URL:         "https://example.com/news/open-weight-models",
		},
		{
			ID:    "sample-2",
			Title: "Enterprises move generative AI pilots into production",
			OriginalContent: "Surveys show that a growing share of enterprises are moving generative AI pilots into " +
				"production, focusing on customer support, document processing and internal knowledge search " +
				"while tightening governance around data privacy.",
			TranslatedContent: "調査によると、生成AIの試験導入を本番運用へ移行する企業の割合が増えている。" +
				"顧客サポート、文書処理、社内ナレッジ検索に重点を置きつつ、データプライバシーに関するガバナンスも強化している。",
			PublishedAt: time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC),
			Source:      "Tech Business Review",
			URL:         "https://example.com/news/enterprise-genai-production",
		},
		{
			ID:    "sample-3",
			Title: "Regulators publish draft guidelines for generative AI transparency",
			OriginalContent: "Regulators have published draft guidelines requiring providers of generative AI services " +
				"to disclose when content is machine-generated and to document the data used to train their models.",
			TranslatedContent: "規制当局は、生成AIサービスの提供者に対し、コンテンツが機械により生成されたものである場合に" +
				"その旨を開示し、モデルの学習に使用したデータを文書化することを求めるガイドライン案を公表した。",
			PublishedAt: time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC),
			Source:      "Policy Tracker",
			URL:         "https://example.com/news/genai-transparency-guidelines",
		},
	}
}
