package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UpsertReport inserts a new report or replaces an existing one by id.
// A missing id is assigned. Last writer wins; there is no conflict
// detection across concurrent editors.
func (s *Store) UpsertReport(r *Report) (*Report, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO reports (id, owner_scope, report_date, course_name, start_time, end_time, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			report_date = excluded.report_date,
			course_name = excluded.course_name,
			start_time  = excluded.start_time,
			end_time    = excluded.end_time,
			description = excluded.description`,
		r.ID, r.OwnerScope, r.Date, r.CourseName, r.StartTime, r.EndTime, r.Description, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert report: %w", err)
	}
	return s.GetReport(r.ID)
}

func (s *Store) GetReport(id string) (*Report, error) {
	r := &Report{}
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, owner_scope, report_date, course_name, start_time, end_time, description, created_at
		 FROM reports WHERE id = ?`, id,
	).Scan(&r.ID, &r.OwnerScope, &r.Date, &r.CourseName, &r.StartTime, &r.EndTime, &r.Description, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return r, nil
}

func (s *Store) DeleteReport(id string) error {
	res, err := s.db.Exec(`DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete report %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete report %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

// ListReports returns every report owned by a scope, newest date first
// then earliest start time, matching the display order of the report
// views. Search filtering stays client side in the report package.
func (s *Store) ListReports(scope string) ([]Report, error) {
	rows, err := s.db.Query(
		`SELECT id, owner_scope, report_date, course_name, start_time, end_time, description, created_at
		 FROM reports WHERE owner_scope = ?
		 ORDER BY report_date DESC, start_time ASC, created_at ASC`, scope,
	)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		var createdAt string
		if err := rows.Scan(&r.ID, &r.OwnerScope, &r.Date, &r.CourseName, &r.StartTime, &r.EndTime, &r.Description, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// ListReportsByDate returns a scope's reports for one civil date,
// ordered by start time.
func (s *Store) ListReportsByDate(scope, date string) ([]Report, error) {
	rows, err := s.db.Query(
		`SELECT id, owner_scope, report_date, course_name, start_time, end_time, description, created_at
		 FROM reports WHERE owner_scope = ? AND report_date = ?
		 ORDER BY start_time ASC, created_at ASC`, scope, date,
	)
	if err != nil {
		return nil, fmt.Errorf("list reports by date: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		var createdAt string
		if err := rows.Scan(&r.ID, &r.OwnerScope, &r.Date, &r.CourseName, &r.StartTime, &r.EndTime, &r.Description, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
