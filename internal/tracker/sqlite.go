package tracker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spigell/fit-scorer/internal/suitability"
)

// SQLiteStore keeps applications in a single SQLite table.
type SQLiteStore struct {
	db    *sql.DB
	clock clock
}

var _ Store = (*SQLiteStore)(nil)

// timeLayout is fixed width so that stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const applicationColumns = `id, job_title, company, location, status, channel, applied_at, resume_name,
	job_description, jd_keywords, cv_keywords, result, created_at, updated_at`

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("tracker: open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("tracker: init schema: %w", err)
	}

	return &SQLiteStore{db: db, clock: defaultClock()}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS applications (
		id              TEXT PRIMARY KEY,
		job_title       TEXT NOT NULL,
		company         TEXT NOT NULL,
		location        TEXT,
		status          TEXT NOT NULL DEFAULT 'Analyzed',
		channel         TEXT,
		applied_at      TEXT,
		resume_name     TEXT,
		job_description TEXT,
		jd_keywords     TEXT NOT NULL DEFAULT '[]',
		cv_keywords     TEXT NOT NULL DEFAULT '[]',
		result          TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`)
	return err
}

func (s *SQLiteStore) Save(ctx context.Context, app *Application) error {
	if app == nil {
		return errors.New("application is required")
	}

	prepare(app, s.clock.newID, s.clock.now())

	if existing, err := s.Get(ctx, app.ID); err == nil {
		app.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	jd, err := json.Marshal(app.JDKeywords)
	if err != nil {
		return err
	}
	cv, err := json.Marshal(app.CVKeywords)
	if err != nil {
		return err
	}

	var result sql.NullString
	if app.Result != nil {
		b, err := json.Marshal(app.Result)
		if err != nil {
			return err
		}
		result = sql.NullString{String: string(b), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO applications (`+applicationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.ID, app.JobTitle, app.Company, app.Location, string(app.Status), string(app.Channel),
		formatTime(app.AppliedAt), app.ResumeName, app.JobDescription, string(jd), string(cv), result,
		stamp(app.CreatedAt), stamp(app.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("tracker: save %s: %w", app.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Application, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)
	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return app, err
}

func (s *SQLiteStore) List(ctx context.Context, status Status) ([]*Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("tracker: list: %w", err)
	}
	defer rows.Close()

	apps := make([]*Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (s *SQLiteStore) UpdateStatus(ctx context.Context, id string, status Status) (*Application, error) {
	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	transition(app, status, s.clock.now())

	_, err = s.db.ExecContext(ctx,
		`UPDATE applications SET status = ?, applied_at = ?, updated_at = ? WHERE id = ?`,
		string(app.Status), formatTime(app.AppliedAt), stamp(app.UpdatedAt), id,
	)
	if err != nil {
		return nil, fmt.Errorf("tracker: update %s: %w", id, err)
	}
	return app, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM applications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("tracker: delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApplication(row scanner) (*Application, error) {
	var (
		app                             Application
		status                          string
		location, channel, resume, desc sql.NullString
		appliedAt, result               sql.NullString
		jd, cv, createdAt, updatedAt    string
	)

	if err := row.Scan(&app.ID, &app.JobTitle, &app.Company, &location, &status, &channel, &appliedAt,
		&resume, &desc, &jd, &cv, &result, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	app.Location = location.String
	app.Status = Status(status)
	app.Channel = Channel(channel.String)
	app.ResumeName = resume.String
	app.JobDescription = desc.String

	if err := json.Unmarshal([]byte(jd), &app.JDKeywords); err != nil {
		return nil, fmt.Errorf("tracker: decode jd keywords of %s: %w", app.ID, err)
	}
	if err := json.Unmarshal([]byte(cv), &app.CVKeywords); err != nil {
		return nil, fmt.Errorf("tracker: decode cv keywords of %s: %w", app.ID, err)
	}

	if result.Valid && result.String != "" {
		app.Result = &suitability.Result{}
		if err := json.Unmarshal([]byte(result.String), app.Result); err != nil {
			return nil, fmt.Errorf("tracker: decode result of %s: %w", app.ID, err)
		}
	}

	var err error
	if app.AppliedAt, err = parseTime(appliedAt.String); err != nil {
		return nil, err
	}
	if app.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, err
	}
	if app.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, err
	}

	return &app, nil
}

func formatTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: stamp(*t), Valid: true}
}

func stamp(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
