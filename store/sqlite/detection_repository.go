package sqlite

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"go.viam.com/ssd/utils"
	"go.viam.com/ssd/vision/objectdetection"
)

// Record is a stored detection. Coordinates are in pixels.
type Record struct {
	ID        int64
	RunID     string
	ImagePath string
	ClassID   int
	Label     string
	Score     float64
	Box       objectdetection.Box
}

// DetectionRepository reads and writes the detections of each image. Every image saved
// through one repository is tagged with the same run id.
type DetectionRepository struct {
	db    *DB
	runID string
}

// NewDetectionRepository creates a detection repository on db with a fresh run id.
func NewDetectionRepository(db *DB) *DetectionRepository {
	return &DetectionRepository{db: db, runID: uuid.NewString()}
}

// RunID returns the id stored with every image this repository saves.
func (r *DetectionRepository) RunID() string {
	return r.runID
}

// Save replaces the stored detections of the image at path in a single transaction. dets
// carry normalized boxes and are stored in pixels of a width x height image.
func (r *DetectionRepository) Save(
	ctx context.Context,
	path string,
	width, height int,
	dets []objectdetection.Detection,
	labels objectdetection.Labels,
) (err error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			utils.UncheckedError(tx.Rollback())
		}
	}()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO images (path, run_id, width, height) VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			run_id = excluded.run_id, width = excluded.width, height = excluded.height,
			detected_at = CURRENT_TIMESTAMP
	`, path, r.runID, width, height); err != nil {
		return errors.Wrapf(err, "failed to store image %q", path)
	}
	var imageID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM images WHERE path = ?`, path).Scan(&imageID); err != nil {
		return errors.Wrapf(err, "failed to look up image %q", path)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM detections WHERE image_id = ?`, imageID); err != nil {
		return errors.Wrap(err, "failed to clear previous detections")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO detections (image_id, class_id, label, score, xmin, ymin, xmax, ymax)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare statement")
	}
	defer utils.UncheckedErrorFunc(stmt.Close)

	for _, d := range objectdetection.Denormalize(dets, width, height) {
		if _, err := stmt.ExecContext(ctx, imageID, d.ClassID, labels.Name(d.ClassID), d.Score,
			d.Box.XMin, d.Box.YMin, d.Box.XMax, d.Box.YMax); err != nil {
			return errors.Wrap(err, "failed to insert detection")
		}
	}
	return tx.Commit()
}

// GetByImagePath returns the detections stored for the image at path, in insertion order.
func (r *DetectionRepository) GetByImagePath(ctx context.Context, path string) ([]Record, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT d.id, i.run_id, i.path, d.class_id, d.label, d.score, d.xmin, d.ymin, d.xmax, d.ymax
		FROM detections d JOIN images i ON d.image_id = i.id
		WHERE i.path = ? ORDER BY d.id
	`, path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query detections")
	}
	defer utils.UncheckedErrorFunc(rows.Close)

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.ImagePath, &rec.ClassID, &rec.Label, &rec.Score,
			&rec.Box.XMin, &rec.Box.YMin, &rec.Box.XMax, &rec.Box.YMax); err != nil {
			return nil, errors.Wrap(err, "failed to scan detection")
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Labels returns every label stored so far, sorted.
func (r *DetectionRepository) Labels(ctx context.Context) ([]string, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rows, err := r.db.conn.QueryContext(ctx, `SELECT DISTINCT label FROM detections ORDER BY label`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query labels")
	}
	defer utils.UncheckedErrorFunc(rows.Close)

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, errors.Wrap(err, "failed to scan label")
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}
