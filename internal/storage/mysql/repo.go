package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	driver "github.com/go-sql-driver/mysql"

	"replyflow/internal/domain"
)

const dupKeyErrNo = 1062

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) FindReviewBySourceID(ctx context.Context, sourceReviewID string) (domain.Review, error) {
	row := r.db.QueryRowContext(ctx, findReviewSQL, sourceReviewID)

	var rev domain.Review
	var raw []byte
	if err := row.Scan(&rev.ID, &rev.SourceReviewID, &rev.ProductID, &rev.Source, &raw); err != nil {
		if err == sql.ErrNoRows {
			return domain.Review{}, domain.ErrNotFound
		}
		return domain.Review{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rev.RawReview); err != nil {
			return domain.Review{}, err
		}
	}
	return rev, nil
}

func (r *Repo) FindReviewsForProduct(ctx context.Context, productID string, sourceReviewIDs []string) ([]domain.Review, error) {
	if len(sourceReviewIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(sourceReviewIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(sourceReviewIDs)+1)
	args = append(args, productID)
	for _, id := range sourceReviewIDs {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source_review_id, product_id, source, raw
		 FROM reviews
		 WHERE product_id = ? AND source_review_id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rev domain.Review
		var raw []byte
		if err := rows.Scan(&rev.ID, &rev.SourceReviewID, &rev.ProductID, &rev.Source, &raw); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &rev.RawReview); err != nil {
				return nil, err
			}
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

func (r *Repo) ProductExists(ctx context.Context, productID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, productExistsSQL, productID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repo) FindProcessedByOriginID(ctx context.Context, orgReviewID string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, findProcessedIDSQL, orgReviewID).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repo) GetProcessed(ctx context.Context, orgReviewID string) (domain.ProcessedReview, error) {
	row := r.db.QueryRowContext(ctx, getProcessedSQL, orgReviewID)

	var pr domain.ProcessedReview
	var analysisJSON, rawJSON []byte
	if err := row.Scan(
		&pr.ID,
		&pr.OrgReviewID,
		&pr.IsProcessed,
		&pr.EnReview,
		&pr.AIGeneratedReply.AIReply,
		&pr.AIGeneratedReply.IsApproved,
		&analysisJSON,
		&pr.ReviewDate,
		&pr.Source,
		&pr.ProductID,
		&rawJSON,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.ProcessedReview{}, domain.ErrNotFound
		}
		return domain.ProcessedReview{}, err
	}
	if len(analysisJSON) > 0 {
		if err := json.Unmarshal(analysisJSON, &pr.Analysis); err != nil {
			return domain.ProcessedReview{}, err
		}
	}
	if len(rawJSON) > 0 {
		if err := json.Unmarshal(rawJSON, &pr.RawReview); err != nil {
			return domain.ProcessedReview{}, err
		}
	}
	return pr, nil
}

// InsertProcessed performs the single append-only write. The unique index on
// org_review_id is what makes duplicate suppression atomic; a conflicting
// insert comes back as domain.ErrDuplicate.
func (r *Repo) InsertProcessed(ctx context.Context, pr domain.ProcessedReview) (int64, error) {
	analysisJSON, err := json.Marshal(pr.Analysis)
	if err != nil {
		return 0, err
	}
	rawJSON, err := json.Marshal(pr.RawReview)
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, insertProcessedSQL,
		pr.OrgReviewID,
		pr.IsProcessed,
		pr.EnReview,
		pr.AIGeneratedReply.AIReply,
		pr.AIGeneratedReply.IsApproved,
		string(analysisJSON),
		pr.ReviewDate,
		pr.Source,
		pr.ProductID,
		string(rawJSON),
	)
	if err != nil {
		var me *driver.MySQLError
		if errors.As(err, &me) && me.Number == dupKeyErrNo {
			return 0, domain.ErrDuplicate
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) UpsertReviews(ctx context.Context, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*4)
	for _, rev := range rs {
		raw, err := json.Marshal(rev.RawReview)
		if err != nil {
			return err
		}
		values = append(values, "(?,?,?,?)")
		args = append(args,
			rev.SourceReviewID,
			rev.ProductID,
			rev.Source,
			string(raw),
		)
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}
