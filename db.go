package main

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS appointments (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		year         INTEGER NOT NULL,
		organization TEXT NOT NULL DEFAULT '',
		org_key      TEXT NOT NULL DEFAULT '',
		appointee    TEXT NOT NULL DEFAULT '',
		position     TEXT NOT NULL DEFAULT '',
		reappointed  INTEGER NOT NULL DEFAULT 0,
		source_file  TEXT NOT NULL DEFAULT '',
		ingested_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_appointments_year ON appointments(year);
	CREATE INDEX IF NOT EXISTS idx_appointments_org_key ON appointments(org_key);
	CREATE INDEX IF NOT EXISTS idx_appointments_source_file ON appointments(source_file);

	CREATE TABLE IF NOT EXISTS analysis_runs (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		run_at          DATETIME NOT NULL,
		start_year      INTEGER NOT NULL,
		end_year        INTEGER NOT NULL,
		record_count    INTEGER NOT NULL,
		dropped_no_year INTEGER NOT NULL DEFAULT 0,
		observations    INTEGER NOT NULL,
		slope           REAL NOT NULL,
		intercept       REAL NOT NULL,
		r_squared       REAL NOT NULL,
		std_err         REAL NOT NULL,
		t_stat          REAL NOT NULL,
		p_value         REAL NOT NULL,
		ci_lower        REAL NOT NULL,
		ci_upper        REAL NOT NULL,
		classification  TEXT NOT NULL,
		created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_analysis_runs_run_at ON analysis_runs(run_at);
	`
	_, err = db.Exec(schema)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func InsertAppointments(db *sql.DB, records []AppointmentRecord) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO appointments (year, organization, org_key, appointee, position, reappointed, source_file)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range records {
		_, err := stmt.Exec(r.Year, r.Organization, r.OrgKey, r.Appointee, r.Position, r.Reappointed, r.SourceFile)
		if err != nil {
			return inserted, err
		}
		inserted++
	}

	return inserted, tx.Commit()
}

// ReplaceSourceFile makes re-ingesting one CSV idempotent: the file's
// previous rows are dropped before its current rows are inserted, in one
// transaction.
func ReplaceSourceFile(db *sql.DB, sourceFile string, records []AppointmentRecord) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM appointments WHERE source_file = ?`, sourceFile); err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO appointments (year, organization, org_key, appointee, position, reappointed, source_file)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range records {
		_, err := stmt.Exec(r.Year, r.Organization, r.OrgKey, r.Appointee, r.Position, r.Reappointed, sourceFile)
		if err != nil {
			return inserted, err
		}
		inserted++
	}

	return inserted, tx.Commit()
}

func GetAnnualCounts(db *sql.DB, startYear, endYear int) ([]YearCounts, error) {
	rows, err := db.Query(
		`SELECT year, COUNT(*), COALESCE(SUM(CASE WHEN reappointed THEN 1 ELSE 0 END), 0)
		 FROM appointments
		 WHERE year >= ? AND year <= ?
		 GROUP BY year ORDER BY year`,
		startYear, endYear,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []YearCounts
	for rows.Next() {
		var c YearCounts
		if err := rows.Scan(&c.Year, &c.Total, &c.Reappointed); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func GetOrgYearCounts(db *sql.DB, startYear, endYear int) ([]OrgYearCount, error) {
	rows, err := db.Query(
		`SELECT COALESCE(MAX(organization), ''), year, COUNT(*),
		        COALESCE(SUM(CASE WHEN reappointed THEN 1 ELSE 0 END), 0)
		 FROM appointments
		 WHERE year >= ? AND year <= ?
		 GROUP BY org_key, year
		 ORDER BY org_key, year`,
		startYear, endYear,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []OrgYearCount
	for rows.Next() {
		var c OrgYearCount
		if err := rows.Scan(&c.Organization, &c.Year, &c.TotalCount, &c.ReappointmentCount); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// --- Analysis run history ---

type AnalysisRun struct {
	ID             int64
	RunAt          time.Time
	StartYear      int
	EndYear        int
	RecordCount    int
	DroppedNoYear  int
	Observations   int
	Slope          float64
	Intercept      float64
	RSquared       float64
	StdErr         float64
	TStat          float64
	PValue         float64
	CILower        float64
	CIUpper        float64
	Classification string
}

func InsertAnalysisRun(db *sql.DB, run AnalysisRun) error {
	_, err := db.Exec(
		`INSERT INTO analysis_runs
		 (run_at, start_year, end_year, record_count, dropped_no_year, observations,
		  slope, intercept, r_squared, std_err, t_stat, p_value, ci_lower, ci_upper, classification)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunAt, run.StartYear, run.EndYear, run.RecordCount, run.DroppedNoYear, run.Observations,
		run.Slope, run.Intercept, run.RSquared, run.StdErr, run.TStat, run.PValue,
		run.CILower, run.CIUpper, run.Classification,
	)
	return err
}

func GetLatestAnalysisRun(db *sql.DB) (AnalysisRun, error) {
	var r AnalysisRun
	err := db.QueryRow(
		`SELECT id, run_at, start_year, end_year, record_count, dropped_no_year, observations,
		        slope, intercept, r_squared, std_err, t_stat, p_value, ci_lower, ci_upper, classification
		 FROM analysis_runs ORDER BY run_at DESC, id DESC LIMIT 1`,
	).Scan(
		&r.ID, &r.RunAt, &r.StartYear, &r.EndYear, &r.RecordCount, &r.DroppedNoYear, &r.Observations,
		&r.Slope, &r.Intercept, &r.RSquared, &r.StdErr, &r.TStat, &r.PValue,
		&r.CILower, &r.CIUpper, &r.Classification,
	)
	return r, err
}
