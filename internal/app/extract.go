package app

import (
	"fmt"

	"replyflow/internal/domain"
)

// attrStr returns the string at key or "". Non-string values count as absent;
// optional leaves never fail extraction.
func attrStr(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// ExtractFields pulls the normalized processing fields out of a review.
// Strict on shape (rawReview.attributes must be an object), lenient on the
// optional leaves inside it.
func ExtractFields(r domain.Review) (domain.ExtractedFields, error) {
	if r.RawReview == nil {
		return domain.ExtractedFields{}, fmt.Errorf("%w: rawReview missing for %s", domain.ErrMalformedReview, r.SourceReviewID)
	}
	attrs, ok := r.RawReview["attributes"].(map[string]any)
	if !ok {
		return domain.ExtractedFields{}, fmt.Errorf("%w: rawReview.attributes missing for %s", domain.ErrMalformedReview, r.SourceReviewID)
	}

	return domain.ExtractedFields{
		ReviewText:   attrStr(attrs, "title") + "\n" + attrStr(attrs, "body"),
		CustomerName: attrStr(attrs, "reviewerNickname"),
		ReviewDate:   attrStr(attrs, "createdDate"),
		Source:       r.Source,
		ProductID:    r.ProductID,
		RawReview:    attrs,
	}, nil
}
