package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zqg/nexis-board/internal/domain"
	"github.com/zqg/nexis-board/internal/repository/sqlite"
	"github.com/zqg/nexis-board/internal/service"
	"github.com/zqg/nexis-board/internal/testutil"
)

func newContentService(t *testing.T) (*service.ContentService, *testutil.TestDB) {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	repos := sqlite.NewRepositories(testDB.DB)
	return service.NewContentService(repos.Post, repos.Comment, repos.Vote), testDB
}

var ownerPrincipal = domain.Principal{Role: domain.RoleOwner, Name: "zqg"}

func TestContentService_Vote_UpsertKeepsOneRow(t *testing.T) {
	svc, testDB := newContentService(t)
	ctx := context.Background()

	post := testutil.NewPostBuilder().Build(t, testDB.DB)
	voter := domain.Principal{Role: domain.RoleHuman, Name: "alice"}

	counts, err := svc.Vote(ctx, voter, post.ID, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts.UpCount)
	assert.EqualValues(t, 0, counts.DownCount)

	// Changing the vote replaces it rather than adding a second row
	counts, err = svc.Vote(ctx, voter, post.ID, -1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, counts.UpCount)
	assert.EqualValues(t, 1, counts.DownCount)

	var rows int64
	testDB.DB.Model(&domain.PostVote{}).
		Where("post_id = ? AND voter_key = ?", post.ID, voter.VoterKey()).
		Count(&rows)
	assert.EqualValues(t, 1, rows)
}

func TestContentService_Vote_DistinctVotersAccumulate(t *testing.T) {
	svc, testDB := newContentService(t)
	ctx := context.Background()

	post := testutil.NewPostBuilder().Build(t, testDB.DB)

	_, err := svc.Vote(ctx, domain.Principal{Role: domain.RoleHuman, Name: "alice"}, post.ID, 1)
	require.NoError(t, err)
	_, err = svc.Vote(ctx, domain.Principal{Role: domain.RoleAI, Name: "AI:bot1"}, post.ID, 1)
	require.NoError(t, err)
	counts, err := svc.Vote(ctx, ownerPrincipal, post.ID, -1)
	require.NoError(t, err)

	assert.EqualValues(t, 2, counts.UpCount)
	assert.EqualValues(t, 1, counts.DownCount)
}

func TestContentService_Vote_Invalid(t *testing.T) {
	svc, testDB := newContentService(t)
	ctx := context.Background()

	post := testutil.NewPostBuilder().Build(t, testDB.DB)

	_, err := svc.Vote(ctx, ownerPrincipal, post.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidVote)
	_, err = svc.Vote(ctx, ownerPrincipal, post.ID, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidVote)
	_, err = svc.Vote(ctx, ownerPrincipal, 99999, 1)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestContentService_CreateComment_ParentValidation(t *testing.T) {
	svc, testDB := newContentService(t)
	ctx := context.Background()

	postA := testutil.NewPostBuilder().WithTitle("a").Build(t, testDB.DB)
	postB := testutil.NewPostBuilder().WithTitle("b").Build(t, testDB.DB)

	parent, err := svc.CreateComment(ctx, ownerPrincipal, postA.ID, service.CommentInput{Body: "top level"})
	require.NoError(t, err)

	// Reply on the same post works
	reply, err := svc.CreateComment(ctx, ownerPrincipal, postA.ID, service.CommentInput{
		Body:     "reply",
		ParentID: &parent.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parent.ID, *reply.ParentID)

	// Parent from a different post is rejected
	_, err = svc.CreateComment(ctx, ownerPrincipal, postB.ID, service.CommentInput{
		Body:     "cross-post reply",
		ParentID: &parent.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidParent)

	// Unknown parent is rejected
	missing := int64(99999)
	_, err = svc.CreateComment(ctx, ownerPrincipal, postA.ID, service.CommentInput{
		Body:     "orphan reply",
		ParentID: &missing,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidParent)
}

func TestContentService_AuthorResolution(t *testing.T) {
	svc, _ := newContentService(t)

	tests := []struct {
		name      string
		principal domain.Principal
		override  string
		wantName  string
		wantType  domain.Role
	}{
		{
			name:      "owner default",
			principal: ownerPrincipal,
			wantName:  "zqg",
			wantType:  domain.RoleOwner,
		},
		{
			name:      "owner can override author",
			principal: ownerPrincipal,
			override:  "ghostwriter",
			wantName:  "ghostwriter",
			wantType:  domain.RoleOwner,
		},
		{
			name:      "human ignores override",
			principal: domain.Principal{Role: domain.RoleHuman, Name: "alice"},
			override:  "not-alice",
			wantName:  "alice",
			wantType:  domain.RoleHuman,
		},
		{
			name:      "ai writes as display name",
			principal: domain.Principal{Role: domain.RoleAI, Name: "AI:bot1"},
			wantName:  "AI:bot1",
			wantType:  domain.RoleAI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := svc.CreatePost(context.Background(), tt.principal, service.PostInput{
				Title:          "t",
				Body:           "b",
				AuthorOverride: tt.override,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, post.Author)
			assert.Equal(t, tt.wantType, post.AuthorType)
		})
	}
}

func TestContentService_HotPosts_Window(t *testing.T) {
	svc, testDB := newContentService(t)
	ctx := context.Background()

	fresh := testutil.NewPostBuilder().WithTitle("fresh").Build(t, testDB.DB)
	stale := testutil.NewPostBuilder().WithTitle("stale").Build(t, testDB.DB)
	testDB.DB.Model(&domain.Post{}).Where("id = ?", stale.ID).
		Update("created_at", time.Now().Add(-48*time.Hour))

	_, err := svc.Vote(ctx, ownerPrincipal, stale.ID, 1)
	require.NoError(t, err)

	hot, err := svc.HotPosts(ctx)
	require.NoError(t, err)

	require.Len(t, hot, 1)
	assert.Equal(t, fresh.ID, hot[0].ID)
}

func TestContentService_ListPosts_Aggregates(t *testing.T) {
	svc, testDB := newContentService(t)
	ctx := context.Background()

	post := testutil.NewPostBuilder().Build(t, testDB.DB)
	_, err := svc.CreateComment(ctx, ownerPrincipal, post.ID, service.CommentInput{Body: "one"})
	require.NoError(t, err)
	_, err = svc.CreateComment(ctx, ownerPrincipal, post.ID, service.CommentInput{Body: "two"})
	require.NoError(t, err)
	_, err = svc.Vote(ctx, domain.Principal{Role: domain.RoleHuman, Name: "alice"}, post.ID, 1)
	require.NoError(t, err)
	_, err = svc.Vote(ctx, domain.Principal{Role: domain.RoleHuman, Name: "bob"}, post.ID, -1)
	require.NoError(t, err)

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.EqualValues(t, 2, posts[0].CommentCount)
	assert.EqualValues(t, 1, posts[0].UpCount)
	assert.EqualValues(t, 1, posts[0].DownCount)
}

func TestContentService_DeletePost_RemovesChildren(t *testing.T) {
	svc, testDB := newContentService(t)
	ctx := context.Background()

	post := testutil.NewPostBuilder().Build(t, testDB.DB)
	_, err := svc.CreateComment(ctx, ownerPrincipal, post.ID, service.CommentInput{Body: "c"})
	require.NoError(t, err)
	_, err = svc.Vote(ctx, ownerPrincipal, post.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, post.ID))

	var comments, votes int64
	testDB.DB.Model(&domain.Comment{}).Where("post_id = ?", post.ID).Count(&comments)
	testDB.DB.Model(&domain.PostVote{}).Where("post_id = ?", post.ID).Count(&votes)
	assert.EqualValues(t, 0, comments)
	assert.EqualValues(t, 0, votes)

	assert.ErrorIs(t, svc.DeletePost(ctx, post.ID), domain.ErrPostNotFound)
}
