package models

import "time"

// SearchIntent is what the user wants to find: a target position and an
// optional list of keywords that replace it in the search expression.
type SearchIntent struct {
	TargetPosition string
	Keywords       []string
}

// NavigationTarget is a built search: the provider expression and the
// results page that runs it.
type NavigationTarget struct {
	Expression string
	URL        string
}

// FeedItem is one rendered post snapshot taken from the feed.
type FeedItem struct {
	ID   string // provider-issued PostID, empty when the element carries none
	HTML string // outer HTML of the item at snapshot time
}

type PostRecord struct {
	PostID           string   `json:"postId"`
	Author           string   `json:"author"`
	PostedAt         string   `json:"postedAt"` // raw provider text, e.g. "3h • Edited"
	BodyText         string   `json:"bodyText"`
	ContactAddresses []string `json:"contactAddresses"`
	OutboundLinks    []string `json:"outboundLinks"`
	// Links repeats OutboundLinks under the key older artifacts used.
	Links []string `json:"links"`
}

type HarvestResult struct {
	RunID            string    `json:"runId"`
	TargetPosition   string    `json:"targetPosition"`
	SearchExpression string    `json:"searchExpression"`
	StartedAt        time.Time `json:"startedAt"`
	FinishedAt       time.Time `json:"finishedAt"`
	Outcome          string    `json:"outcome"`

	AllContactAddresses []string     `json:"allContactAddresses"`
	Posts               []PostRecord `json:"posts"`
}
