// Package history assembles and filters fetched conversation items so that
// nothing written or edited after the triggering event can reach the
// assistant. Edits landing after the trigger would otherwise be a channel
// for retroactive prompt injection.
package history

import (
	"time"

	"github.com/openclaw/claude-action/internal/domain"
	"github.com/openclaw/claude-action/internal/sanitize"
)

// FilterComments keeps only comments whose creation AND effective
// last-modification both precede triggerTime strictly. Equality at the
// boundary is excluded: an edit landing in the same instant as the trigger
// is already too late. A zero triggerTime disables filtering and returns
// the input unchanged.
func FilterComments(comments []domain.Comment, triggerTime time.Time) []domain.Comment {
	if triggerTime.IsZero() {
		return comments
	}

	kept := make([]domain.Comment, 0, len(comments))
	for _, c := range comments {
		if c.CreatedAt.Before(triggerTime) && c.LastModified().Before(triggerTime) {
			kept = append(kept, c)
		}
	}
	return kept
}

// FilterReviews applies the same boundary rule to reviews (anchored on
// SubmittedAt) and, independently, to the comments nested inside each kept
// review.
func FilterReviews(reviews []domain.Review, triggerTime time.Time) []domain.Review {
	if triggerTime.IsZero() {
		return reviews
	}

	kept := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if !r.SubmittedAt.Before(triggerTime) || !r.LastModified().Before(triggerTime) {
			continue
		}
		r.Comments = FilterComments(r.Comments, triggerTime)
		kept = append(kept, r)
	}
	return kept
}

// TriggerTime extracts the timestamp of the exact comment or review object
// that fired the event. Lifecycle events have no such object; they return
// the zero time and history filtering is skipped for them, which is a
// deliberate scope limit rather than an oversight.
func TriggerTime(gctx domain.Context) time.Time {
	entity, ok := gctx.(*domain.EntityContext)
	if !ok {
		return time.Time{}
	}

	switch entity.EventName {
	case domain.EventIssueComment, domain.EventPullRequestReviewComment:
		if c := entity.Payload.Comment; c != nil {
			return parseTimestamp(c.CreatedAt)
		}
	case domain.EventPullRequestReview:
		if r := entity.Payload.Review; r != nil {
			return parseTimestamp(r.SubmittedAt)
		}
	}
	return time.Time{}
}

// PrepareComments produces the prompt-ready view of fetched comments:
// minimized items dropped, boundary filter applied, bodies sanitized.
func PrepareComments(comments []domain.Comment, triggerTime time.Time) []domain.Comment {
	visible := make([]domain.Comment, 0, len(comments))
	for _, c := range comments {
		if c.Minimized {
			continue
		}
		visible = append(visible, c)
	}

	filtered := FilterComments(visible, triggerTime)
	out := make([]domain.Comment, len(filtered))
	for i, c := range filtered {
		c.Body = sanitize.Sanitize(c.Body)
		out[i] = c
	}
	return out
}

// PrepareReviews is PrepareComments for reviews and their nested comments.
func PrepareReviews(reviews []domain.Review, triggerTime time.Time) []domain.Review {
	filtered := FilterReviews(reviews, triggerTime)
	out := make([]domain.Review, len(filtered))
	for i, r := range filtered {
		r.Body = sanitize.Sanitize(r.Body)
		r.Comments = PrepareComments(r.Comments, time.Time{})
		out[i] = r
	}
	return out
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
