package domain

import "time"

// Comment is a fetched conversation item: an issue comment, PR comment, or
// a review comment nested inside a review. Zero time values mean the field
// was absent upstream.
type Comment struct {
	ID           string
	Author       string
	Body         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastEditedAt time.Time
	Minimized    bool
}

// LastModified returns the effective last-modification time:
// LastEditedAt if present, else UpdatedAt, else CreatedAt.
func (c Comment) LastModified() time.Time {
	if !c.LastEditedAt.IsZero() {
		return c.LastEditedAt
	}
	if !c.UpdatedAt.IsZero() {
		return c.UpdatedAt
	}
	return c.CreatedAt
}

// Review is a fetched pull request review together with its nested comments.
type Review struct {
	ID           string
	Author       string
	Body         string
	State        string
	SubmittedAt  time.Time
	UpdatedAt    time.Time
	LastEditedAt time.Time
	Comments     []Comment
}

// LastModified returns the effective last-modification time of the review
// body itself, following the same precedence as Comment.
func (r Review) LastModified() time.Time {
	if !r.LastEditedAt.IsZero() {
		return r.LastEditedAt
	}
	if !r.UpdatedAt.IsZero() {
		return r.UpdatedAt
	}
	return r.SubmittedAt
}
