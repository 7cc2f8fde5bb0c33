package query

import (
	"net/url"
	"testing"

	"go-hiring-harvester/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchTarget_Expression(t *testing.T) {
	tests := []struct {
		name     string
		intent   models.SearchIntent
		expected string
	}{
		{
			name:     "position only",
			intent:   models.SearchIntent{TargetPosition: "Flutter Developer"},
			expected: `"Flutter Developer" AND "hiring"`,
		},
		{
			name:     "keywords replace position",
			intent:   models.SearchIntent{TargetPosition: "Flutter Developer", Keywords: []string{"Flutter", "Dart"}},
			expected: `"Flutter" AND "Dart" AND "hiring"`,
		},
		{
			name:     "blank keywords fall back to position",
			intent:   models.SearchIntent{TargetPosition: "Go Engineer", Keywords: []string{"  ", ""}},
			expected: `"Go Engineer" AND "hiring"`,
		},
		{
			name:     "embedded quotes are dropped",
			intent:   models.SearchIntent{TargetPosition: "x", Keywords: []string{`"Site  Reliability"`}},
			expected: `"Site Reliability" AND "hiring"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := BuildSearchTarget(tt.intent)
			assert.Equal(t, tt.expected, target.Expression)
		})
	}
}

func TestBuildSearchTarget_URL(t *testing.T) {
	target := BuildSearchTarget(models.SearchIntent{TargetPosition: "Flutter Developer"})

	assert.NotContains(t, target.URL, " ")
	assert.NotContains(t, target.URL, "+")

	u, err := url.Parse(target.URL)
	require.NoError(t, err)
	assert.Equal(t, "/search/results/content/", u.Path)
	assert.Equal(t, target.Expression, u.Query().Get("keywords"))
	assert.Equal(t, `"date_posted"`, u.Query().Get("sortBy"))
}
