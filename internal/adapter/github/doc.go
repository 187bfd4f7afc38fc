// Package github is the adapter for the GitHub REST and GraphQL APIs.
//
// The REST surface (permissions, users, branches, tracking comments) goes
// through google/go-github. Conversation history is fetched over GraphQL
// because the REST API does not expose lastEditedAt or isMinimized, both of
// which the history filter depends on.
//
// The adapter returns domain types; nothing above this layer imports
// go-github.
package github
