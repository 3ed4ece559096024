package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// IngestResult tracks what happened while combining the yearly CSV files.
type IngestResult struct {
	Files         []string
	Records       []AppointmentRecord
	RowsRead      int
	DroppedNoYear int // rows with no resolvable year, excluded from aggregation
	BadFlagRows   int // rows whose reappointed flag was unrecognized (treated as false)
}

var appointmentsFileYear = regexp.MustCompile(`appointments_(\d{4})\.csv$`)

// LoadAppointmentsDir reads every appointments_*.csv in dir and combines
// the rows into a single record set. Rows without a resolvable year are
// dropped and counted, never silently discarded.
func LoadAppointmentsDir(dir string) (IngestResult, error) {
	var result IngestResult

	paths, err := filepath.Glob(filepath.Join(dir, "appointments_*.csv"))
	if err != nil {
		return result, fmt.Errorf("listing %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return result, fmt.Errorf("no appointments_*.csv files found in %s", dir)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := loadAppointmentsFile(path, &result); err != nil {
			return result, fmt.Errorf("loading %s: %w", filepath.Base(path), err)
		}
	}
	log.Printf("Ingest complete: files=%d rows=%d records=%d dropped_no_year=%d bad_flag=%d",
		len(result.Files), result.RowsRead, len(result.Records), result.DroppedNoYear, result.BadFlagRows)
	return result, nil
}

func loadAppointmentsFile(path string, result *IngestResult) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	base := filepath.Base(path)
	fileYear := yearFromFilename(base)

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		log.Printf("Skipping empty file %s", base)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	cols := mapColumns(header)
	if cols.reappointed < 0 {
		return fmt.Errorf("no reappointed column in header %v", header)
	}

	rows := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading row %d: %w", rows+2, err)
		}
		rows++
		result.RowsRead++

		year := resolveYear(row, cols, fileYear)
		if year == 0 {
			result.DroppedNoYear++
			continue
		}

		flag, ok := ParseReappointedFlag(field(row, cols.reappointed))
		if !ok {
			result.BadFlagRows++
		}

		org := NormalizeText(field(row, cols.org))
		result.Records = append(result.Records, AppointmentRecord{
			Year:         year,
			Organization: org,
			OrgKey:       strings.ToLower(org),
			Appointee:    NormalizeText(field(row, cols.appointee)),
			Position:     NormalizeText(field(row, cols.position)),
			Reappointed:  flag,
			SourceFile:   base,
		})
	}

	result.Files = append(result.Files, base)
	log.Printf("Loaded %s: %d rows", base, rows)
	return nil
}

type columnIndex struct {
	year        int
	org         int
	appointee   int
	position    int
	reappointed int
	postedDate  int
}

// mapColumns resolves the column aliases the yearly source files use.
// The first matching header wins for each role.
func mapColumns(header []string) columnIndex {
	cols := columnIndex{year: -1, org: -1, appointee: -1, position: -1, reappointed: -1, postedDate: -1}
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		name = strings.NewReplacer("-", "_", " ", "_").Replace(name)
		switch name {
		case "year", "source_year", "appointment_year":
			if cols.year < 0 {
				cols.year = i
			}
		case "organization", "organisation", "org":
			if cols.org < 0 {
				cols.org = i
			}
		case "name", "appointee", "appointee_name":
			if cols.appointee < 0 {
				cols.appointee = i
			}
		case "position", "title", "role":
			if cols.position < 0 {
				cols.position = i
			}
		case "reappointed", "re_appointed", "reappointment", "is_reappointment":
			if cols.reappointed < 0 {
				cols.reappointed = i
			}
		case "posted_date", "date_posted", "start_date":
			if cols.postedDate < 0 {
				cols.postedDate = i
			}
		}
	}
	return cols
}

// resolveYear tries the year column, then the filename, then the posted
// date. Returns 0 when no plausible year can be found.
func resolveYear(row []string, cols columnIndex, fileYear int) int {
	if y := parseYear(field(row, cols.year)); y != 0 {
		return y
	}
	if fileYear != 0 {
		return fileYear
	}
	return yearFromDate(field(row, cols.postedDate))
}

func yearFromFilename(base string) int {
	m := appointmentsFileYear.FindStringSubmatch(base)
	if m == nil {
		return 0
	}
	return parseYear(m[1])
}

// yearFromDate takes the leading four-digit run of an ISO-style date
// ("2019-03-14", "2019/03/14").
func yearFromDate(s string) int {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0
	}
	return parseYear(s[:4])
}

func parseYear(s string) int {
	s = strings.TrimSpace(s)
	y, err := strconv.Atoi(s)
	if err != nil || y < 1900 || y > 2100 {
		return 0
	}
	return y
}

// ParseReappointedFlag coerces the source files' flag spellings to a
// boolean. An empty cell is false (the sources leave first appointments
// blank); an unrecognized token reports ok=false and the caller counts it.
func ParseReappointedFlag(s string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1":
		return true, true
	case "", "false", "f", "no", "n", "0":
		return false, true
	default:
		return false, false
	}
}

// NormalizeText trims and collapses inner whitespace so the same
// organization or appointee spelled with stray spaces groups together.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
