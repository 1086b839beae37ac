package domain

// Review is a customer review as ingested from a source platform.
// RawReview is the platform payload kept verbatim; the processing path
// reads rawReview["attributes"] (title, body, reviewerNickname, createdDate).
type Review struct {
	ID             int64
	SourceReviewID string // unique per (ProductID, Source)
	ProductID      string
	Source         string
	RawReview      map[string]any
}

// ExtractedFields is the per-run working copy pulled out of a Review.
type ExtractedFields struct {
	ReviewText   string // title + "\n" + body
	CustomerName string
	ReviewDate   string
	Source       string
	ProductID    string
	RawReview    map[string]any // the attributes map, persisted for audit
}

// GeneratedReply is the reply agent's output. EnReply is an English
// rendering of AIReply for reviewers who don't read the customer's language.
type GeneratedReply struct {
	AIReply string `json:"aiReply"`
	EnReply string `json:"enReply"`
}

type AnalysisItem struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Analysis is the classification agent's output.
type Analysis struct {
	Sentiment   string         `json:"sentiment"`
	Issues      []AnalysisItem `json:"issues"`
	NewRequests []AnalysisItem `json:"newRequests"`
}

// AIGeneratedReply as persisted. IsApproved starts false; approval is an
// external workflow.
type AIGeneratedReply struct {
	AIReply    string `json:"aiReply"`
	IsApproved bool   `json:"isApproved"`
}

// ProcessedReview is the durable output record, one per OrgReviewID.
// Append-only: it is never updated in place.
type ProcessedReview struct {
	ID               int64            `json:"id"`
	OrgReviewID      string           `json:"orgReviewId"`
	IsProcessed      bool             `json:"isProcessed"`
	EnReview         string           `json:"enReview"`
	AIGeneratedReply AIGeneratedReply `json:"aiGeneratedReply"`
	Analysis         Analysis         `json:"analysis"`
	ReviewDate       string           `json:"reviewDate"`
	Source           string           `json:"source"`
	ProductID        string           `json:"productId"`
	RawReview        map[string]any   `json:"rawReview"`
}
