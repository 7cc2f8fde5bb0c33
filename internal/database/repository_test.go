package database

import (
	"context"
	"os"
	"testing"
	"time"

	"go-hiring-harvester/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) *Repository {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if testing.Short() || url == "" {
		t.Skip("Skipping database test: set TEST_DATABASE_URL to run it")
	}
	ctx := context.Background()
	repo, err := ConnectDB(ctx, url)
	require.NoError(t, err)
	t.Cleanup(repo.Close)
	require.NoError(t, repo.EnsureSchema(ctx))
	return repo
}

func TestRepository_WriteMergesRepeatedPosts(t *testing.T) {
	repo := connect(t)
	ctx := context.Background()
	postID := "urn:test:" + uuid.NewString()
	addr := uuid.NewString()[:8] + "@example.com"

	run := func() *models.HarvestResult {
		return &models.HarvestResult{
			RunID:            uuid.NewString(),
			TargetPosition:   "Go",
			SearchExpression: `"Go" AND "hiring"`,
			StartedAt:        time.Now().Add(-time.Minute),
			FinishedAt:       time.Now(),
			Outcome:          "deadline",
			Posts: []models.PostRecord{{
				PostID: postID, Author: "A", PostedAt: "1h", BodyText: "mail " + addr,
				ContactAddresses: []string{addr}, OutboundLinks: []string{},
			}},
		}
	}

	require.NoError(t, repo.Write(ctx, run()))
	require.NoError(t, repo.Write(ctx, run()))

	known, err := repo.KnownAddresses(ctx)
	require.NoError(t, err)
	count := 0
	for _, a := range known {
		if a == addr {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
