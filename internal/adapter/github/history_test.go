package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func TestFetchComments(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "octo", req.Variables["owner"])
		assert.Equal(t, float64(12), req.Variables["number"])

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"repository": map[string]any{
					"issueOrPullRequest": map[string]any{
						"comments": map[string]any{
							"nodes": []map[string]any{
								{
									"id":        "IC_1",
									"body":      "first comment",
									"createdAt": "2024-01-15T10:00:00Z",
									"updatedAt": "2024-01-15T10:00:00Z",
									"author":    map[string]any{"login": "alice"},
								},
								{
									"id":           "IC_2",
									"body":         "edited comment",
									"createdAt":    "2024-01-15T10:05:00Z",
									"updatedAt":    "2024-01-15T11:00:00Z",
									"lastEditedAt": "2024-01-15T10:30:00Z",
									"isMinimized":  true,
									"author":       map[string]any{"login": "bob"},
								},
							},
							"pageInfo": map[string]any{"hasNextPage": false, "endCursor": ""},
						},
					},
				},
			},
		})
	})

	client := newTestClient(t, mux)

	comments, err := client.FetchComments(context.Background(), testRepo, 12)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	assert.Equal(t, "IC_1", comments[0].ID)
	assert.Equal(t, "alice", comments[0].Author)
	assert.False(t, comments[0].Minimized)
	assert.True(t, comments[0].LastEditedAt.IsZero())

	assert.Equal(t, "bob", comments[1].Author)
	assert.True(t, comments[1].Minimized)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), comments[1].LastEditedAt)
}

func TestFetchComments_Pagination(t *testing.T) {
	page := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		page++
		switch page {
		case 1:
			assert.Nil(t, req.Variables["after"])
			json.NewEncoder(w).Encode(commentsPage("IC_1", true, "CURSOR1"))
		case 2:
			assert.Equal(t, "CURSOR1", req.Variables["after"])
			json.NewEncoder(w).Encode(commentsPage("IC_2", false, ""))
		default:
			t.Error("unexpected extra page request")
		}
	})

	client := newTestClient(t, mux)

	comments, err := client.FetchComments(context.Background(), testRepo, 12)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "IC_1", comments[0].ID)
	assert.Equal(t, "IC_2", comments[1].ID)
}

func commentsPage(id string, hasNext bool, cursor string) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"repository": map[string]any{
				"issueOrPullRequest": map[string]any{
					"comments": map[string]any{
						"nodes": []map[string]any{
							{
								"id":        id,
								"body":      "body",
								"createdAt": "2024-01-15T10:00:00Z",
								"author":    map[string]any{"login": "alice"},
							},
						},
						"pageInfo": map[string]any{"hasNextPage": hasNext, "endCursor": cursor},
					},
				},
			},
		},
	}
}

func TestFetchReviews(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"repository": map[string]any{
					"pullRequest": map[string]any{
						"reviews": map[string]any{
							"nodes": []map[string]any{
								{
									"id":          "PRR_1",
									"body":        "looks good overall",
									"state":       "APPROVED",
									"submittedAt": "2024-01-15T09:00:00Z",
									"author":      map[string]any{"login": "carol"},
									"comments": map[string]any{
										"nodes": []map[string]any{
											{
												"id":        "PRRC_1",
												"body":      "nit: rename this",
												"createdAt": "2024-01-15T09:00:00Z",
												"author":    map[string]any{"login": "carol"},
											},
										},
									},
								},
							},
							"pageInfo": map[string]any{"hasNextPage": false, "endCursor": ""},
						},
					},
				},
			},
		})
	})

	client := newTestClient(t, mux)

	reviews, err := client.FetchReviews(context.Background(), testRepo, 7)
	require.NoError(t, err)
	require.Len(t, reviews, 1)

	review := reviews[0]
	assert.Equal(t, "PRR_1", review.ID)
	assert.Equal(t, "carol", review.Author)
	assert.Equal(t, "APPROVED", review.State)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), review.SubmittedAt)
	require.Len(t, review.Comments, 1)
	assert.Equal(t, "nit: rename this", review.Comments[0].Body)
}

func TestFetchComments_GraphQLErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{"message": "Could not resolve to an Issue"}},
		})
	})

	client := newTestClient(t, mux)

	_, err := client.FetchComments(context.Background(), testRepo, 999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not resolve")
}

func TestFetchComments_ServerErrorRetries(t *testing.T) {
	attempts := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(commentsPage("IC_1", false, ""))
	})

	client := newTestClient(t, mux)

	comments, err := client.FetchComments(context.Background(), testRepo, 12)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, 2, attempts)
}
