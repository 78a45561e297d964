package sqlite

import (
	"context"
	"time"

	"github.com/zqg/nexis-board/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *voteRepository {
	return &voteRepository{db: db}
}

// Upsert relies on the store's native ON CONFLICT so the read-modify-write
// is atomic; uniqueness on (post_id, voter_key) keeps one row per voter.
func (r *voteRepository) Upsert(ctx context.Context, postID int64, voterKey string, vote int) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "voter_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"vote": vote, "updated_at": now}),
		}).
		Create(&domain.PostVote{
			PostID:    postID,
			VoterKey:  voterKey,
			Vote:      vote,
			CreatedAt: now,
			UpdatedAt: now,
		}).Error
}

func (r *voteRepository) Counts(ctx context.Context, postID int64) (domain.VoteCounts, error) {
	var counts domain.VoteCounts
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(CASE WHEN vote = 1 THEN 1 ELSE 0 END), 0) AS up_count,
		       COALESCE(SUM(CASE WHEN vote = -1 THEN 1 ELSE 0 END), 0) AS down_count
		FROM post_votes
		WHERE post_id = ?
	`, postID).Scan(&counts).Error
	return counts, err
}
