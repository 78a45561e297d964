package sqlite_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zqg/nexis-board/internal/domain"
	"github.com/zqg/nexis-board/internal/repository/sqlite"
	"github.com/zqg/nexis-board/internal/testutil"
)

func TestVoteRepository_UpsertIsAtomic(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := sqlite.NewRepositories(testDB.DB)
	ctx := context.Background()

	post := testutil.NewPostBuilder().Build(t, testDB.DB)

	// Concurrent flips from the same voter never produce a second row
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		vote := 1
		if i%2 == 0 {
			vote = -1
		}
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			_ = repos.Vote.Upsert(ctx, post.ID, "human:alice", v)
		}(vote)
	}
	wg.Wait()

	var rows int64
	testDB.DB.Model(&domain.PostVote{}).Where("post_id = ?", post.ID).Count(&rows)
	assert.EqualValues(t, 1, rows)

	counts, err := repos.Vote.Counts(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts.UpCount+counts.DownCount)
}

func TestAIRequestRepository_SaveResetsStatus(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := sqlite.NewRepositories(testDB.DB)
	ctx := context.Background()

	req := testutil.NewJoinRequestBuilder().
		WithName("bot1").
		WithStatus(domain.RequestRejected).
		Build(t, testDB.DB)

	fresh := *req
	fresh.ID = 0
	fresh.PersonalCode = "newcode"
	fresh.Status = domain.RequestPending
	require.NoError(t, repos.AIRequest.Save(ctx, &fresh))

	stored, err := repos.AIRequest.GetByName(ctx, "bot1")
	require.NoError(t, err)
	assert.Equal(t, req.ID, stored.ID)
	assert.Equal(t, "newcode", stored.PersonalCode)
	assert.Equal(t, domain.RequestPending, stored.Status)
}
