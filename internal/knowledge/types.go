package knowledge

import "time"

// Source constants for campaign knowledge documents.
const (
	// SourceFAQ holds question/answer pairs about the referral program.
	SourceFAQ = "faq"

	// SourceCampaign holds campaign platform and candidate material.
	SourceCampaign = "campaign"

	// SourceManual holds volunteer onboarding and tooling guides.
	SourceManual = "manual"
)

// Document is a chunk of campaign knowledge stored in the index.
type Document struct {
	ID        string
	Source    string
	Content   string
	Metadata  map[string]string
	CreatedAt time.Time
}

// Result is a search hit with its cosine similarity score.
type Result struct {
	Document   Document
	Similarity float32
}

// SearchOption configures Search behavior.
type SearchOption func(*searchConfig)

type searchConfig struct {
	topK   int
	source string
}

// WithTopK caps the number of results. Default is 3.
func WithTopK(k int) SearchOption {
	return func(c *searchConfig) {
		if k > 0 {
			c.topK = k
		}
	}
}

// WithSource restricts results to a single source category.
func WithSource(source string) SearchOption {
	return func(c *searchConfig) {
		c.source = source
	}
}

func buildSearchConfig(opts []SearchOption) *searchConfig {
	cfg := &searchConfig{topK: 3}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
