package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/jask/framebuilder/internal/board"
	"github.com/jask/framebuilder/internal/database"
)

// BoardRepo persists the whole board as one unit.
type BoardRepo struct {
	db *sql.DB
}

func NewBoardRepo(db *sql.DB) *BoardRepo {
	return &BoardRepo{db: db}
}

// Save replaces every stored row with s inside one transaction.
func (r *BoardRepo) Save(ctx context.Context, s board.State) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, t := range []string{"frame_images", "frames", "image_sizes", "images"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("clear %s: %w", t, err)
			}
		}

		for _, img := range s.Library {
			if _, err := tx.ExecContext(ctx, `INSERT INTO images(id, url, order_id) VALUES (?, ?, ?)`, img.ID, img.URL, img.OrderID); err != nil {
				return fmt.Errorf("insert image %s: %w", img.ID, err)
			}
			for size, u := range img.Sizes {
				if _, err := tx.ExecContext(ctx, `INSERT INTO image_sizes(image_id, size, url) VALUES (?, ?, ?)`, img.ID, size, u); err != nil {
					return fmt.Errorf("insert size %s/%s: %w", img.ID, size, err)
				}
			}
		}

		for _, f := range s.Frames {
			if _, err := tx.ExecContext(ctx, `INSERT INTO frames(id, order_id, caption) VALUES (?, ?, ?)`, f.ID, f.OrderID, f.Caption); err != nil {
				return fmt.Errorf("insert frame %s: %w", f.ID, err)
			}
			for _, img := range f.Images {
				if _, err := tx.ExecContext(ctx, `INSERT INTO frame_images(frame_id, image_id, url, order_id) VALUES (?, ?, ?, ?)`, f.ID, img.ID, img.URL, img.OrderID); err != nil {
					return fmt.Errorf("insert placement %s/%s: %w", f.ID, img.ID, err)
				}
			}
		}

		_, err := tx.ExecContext(ctx, `
		UPDATE board_meta SET
		 sidebar_open=?,
		 used_open=?,
		 revision=revision+1,
		 saved_at=?
		WHERE id = 1;
		`, s.UI.SidebarOpen, s.UI.UsedOpen, database.Now())
		return err
	})
}

// Meta returns the singleton metadata row.
func (r *BoardRepo) Meta(ctx context.Context) (Meta, error) {
	var m Meta
	var saved sql.NullTime
	row := r.db.QueryRowContext(ctx, `SELECT sidebar_open, used_open, revision, saved_at FROM board_meta WHERE id = 1`)
	if err := row.Scan(&m.SidebarOpen, &m.UsedOpen, &m.Revision, &saved); err != nil {
		if err == sql.ErrNoRows {
			return Meta{}, nil
		}
		return Meta{}, err
	}
	if saved.Valid {
		t := saved.Time
		m.SavedAt = &t
	}
	return m, nil
}

// Load reads the last saved board. It returns board.ErrNoSnapshot before the
// first Save and a wrapped board.ErrInvalidState for rows that break the
// ordering invariants.
func (r *BoardRepo) Load(ctx context.Context) (board.State, error) {
	meta, err := r.Meta(ctx)
	if err != nil {
		return board.State{}, fmt.Errorf("load meta: %w", err)
	}
	if meta.Revision == 0 {
		return board.State{}, board.ErrNoSnapshot
	}

	s := board.Empty()
	s.UI = board.UIState{SidebarOpen: meta.SidebarOpen, UsedOpen: meta.UsedOpen}

	if s.Library, err = r.listImages(ctx); err != nil {
		return board.State{}, err
	}
	if s.Frames, err = r.listFrames(ctx); err != nil {
		return board.State{}, err
	}
	if err := s.Validate(); err != nil {
		return board.State{}, fmt.Errorf("load board: %w", err)
	}
	return s, nil
}

func (r *BoardRepo) listImages(ctx context.Context) ([]board.Image, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, url, order_id FROM images ORDER BY order_id, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []board.Image{}
	index := map[string]int{}
	for rows.Next() {
		var img board.Image
		if err := rows.Scan(&img.ID, &img.URL, &img.OrderID); err != nil {
			return nil, err
		}
		index[img.ID] = len(out)
		out = append(out, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sizeRows, err := r.db.QueryContext(ctx, `SELECT image_id, size, url FROM image_sizes`)
	if err != nil {
		return nil, err
	}
	defer sizeRows.Close()
	for sizeRows.Next() {
		var id, size, u string
		if err := sizeRows.Scan(&id, &size, &u); err != nil {
			return nil, err
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		if out[i].Sizes == nil {
			out[i].Sizes = map[string]string{}
		}
		out[i].Sizes[size] = u
	}
	return out, sizeRows.Err()
}

func (r *BoardRepo) listFrames(ctx context.Context) ([]board.Frame, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, order_id, caption FROM frames ORDER BY order_id, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []board.Frame{}
	index := map[string]int{}
	for rows.Next() {
		f := board.Frame{Images: []board.Image{}}
		if err := rows.Scan(&f.ID, &f.OrderID, &f.Caption); err != nil {
			return nil, err
		}
		index[f.ID] = len(out)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	placeRows, err := r.db.QueryContext(ctx, `SELECT frame_id, image_id, url, order_id FROM frame_images`)
	if err != nil {
		return nil, err
	}
	defer placeRows.Close()
	for placeRows.Next() {
		var frameID string
		var img board.Image
		if err := placeRows.Scan(&frameID, &img.ID, &img.URL, &img.OrderID); err != nil {
			return nil, err
		}
		if i, ok := index[frameID]; ok {
			out[i].Images = append(out[i].Images, img)
		}
	}
	if err := placeRows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		images := out[i].Images
		sort.SliceStable(images, func(a, b int) bool { return images[a].OrderID < images[b].OrderID })
	}
	return out, nil
}
