package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/templui/fittrack/internal/model"
)

type LayoutRepository interface {
	// Layout returns the stored slots ordered by position; empty when the
	// user never saved a layout.
	Layout(userID string) ([]*model.WidgetSlot, error)
	Save(userID string, layout []*model.WidgetSlot) error
}

type layoutRepository struct {
	db *sqlx.DB
}

func NewLayoutRepository(db *sqlx.DB) LayoutRepository {
	return &layoutRepository{db: db}
}

func (r *layoutRepository) Layout(userID string) ([]*model.WidgetSlot, error) {
	slots := []*model.WidgetSlot{}
	query := r.db.Rebind(`SELECT * FROM dashboard_widgets WHERE user_id = ? ORDER BY sort_order ASC`)

	err := r.db.Select(&slots, query, userID)
	if err != nil {
		return nil, err
	}

	return slots, nil
}

// Save replaces the whole layout so positions stay a dense 0..n-1 sequence.
func (r *layoutRepository) Save(userID string, layout []*model.WidgetSlot) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(tx.Rebind(`DELETE FROM dashboard_widgets WHERE user_id = ?`), userID); err != nil {
		return err
	}

	query := tx.Rebind(`INSERT INTO dashboard_widgets (user_id, widget, sort_order, visible) VALUES (?, ?, ?, ?)`)
	for i, slot := range layout {
		slot.UserID = userID
		slot.SortOrder = i
		if _, err := tx.Exec(query, slot.UserID, slot.Widget, slot.SortOrder, slot.Visible); err != nil {
			return err
		}
	}

	return tx.Commit()
}
