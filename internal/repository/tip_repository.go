package repository

import (
	"context"
	"database/sql"

	"github.com/ecotrack/carbon-tracker/internal/model"
)

// TipRepo mirrors the 'tips' table.
//
//	CREATE TABLE tips (
//	  id       BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
//	  category VARCHAR(16) NOT NULL,
//	  message  VARCHAR(255) NOT NULL,
//	  KEY idx_category (category)
//	)
type TipRepo struct{ DB *sql.DB }

func NewTipRepo(db *sql.DB) *TipRepo { return &TipRepo{DB: db} }

// ByCategory returns up to limit tips for the category.
func (r *TipRepo) ByCategory(ctx context.Context, category string, limit int) ([]model.Tip, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,category,message FROM tips WHERE category=? ORDER BY id LIMIT ?", category, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Tip
	for rows.Next() {
		var t model.Tip
		if err := rows.Scan(&t.ID, &t.Category, &t.Message); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
