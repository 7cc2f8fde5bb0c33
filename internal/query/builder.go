// Package query turns a search intent into a LinkedIn content search.
package query

import (
	"fmt"
	"net/url"
	"strings"

	"go-hiring-harvester/internal/models"
)

// DiscoveryTerm is ANDed into every expression so the feed leans towards
// recruitment posts.
const DiscoveryTerm = "hiring"

const searchTemplate = "https://www.linkedin.com/search/results/content/?keywords=%s&origin=FACETED_SEARCH&sortBy=%%22date_posted%%22"

// BuildSearchTarget builds the search expression and the recency-sorted
// results URL for intent.
func BuildSearchTarget(intent models.SearchIntent) models.NavigationTarget {
	var terms []string
	for _, keyword := range intent.Keywords {
		if phrase := cleanPhrase(keyword); phrase != "" {
			terms = append(terms, phrase)
		}
	}
	if len(terms) == 0 {
		terms = []string{cleanPhrase(intent.TargetPosition)}
	}
	terms = append(terms, DiscoveryTerm)

	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = `"` + term + `"`
	}
	expression := strings.Join(quoted, " AND ")

	// QueryEscape encodes spaces as "+", the results page expects %20.
	encoded := strings.ReplaceAll(url.QueryEscape(expression), "+", "%20")
	return models.NavigationTarget{
		Expression: expression,
		URL:        fmt.Sprintf(searchTemplate, encoded),
	}
}

// cleanPhrase drops embedded quotes so each term stays one exact phrase.
func cleanPhrase(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, `"`, "")), " ")
}
