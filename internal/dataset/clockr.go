package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/christopherklint97/timescape/internal/normalize"
)

const sourceClockr = "clockr"

// ReadClockr reads the entries table of a clockr database. The database is
// opened read-only; failed entries are skipped since they were never logged.
func ReadClockr(ctx context.Context, path string) ([]normalize.CanonicalRecord, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening clockr database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("connecting to clockr database: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, project_name, description, start_time, end_time, minutes
		 FROM entries
		 WHERE status != 'failed'
		 ORDER BY start_time ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var records []normalize.CanonicalRecord
	for rows.Next() {
		var (
			id               int64
			project, desc    string
			startStr, endStr string
			minutes          int
		)
		if err := rows.Scan(&id, &project, &desc, &startStr, &endStr, &minutes); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		records = append(records, normalize.CanonicalRecord{
			ID:           sourceClockr + "-" + strconv.FormatInt(id, 10),
			Title:        desc,
			Start:        clockrTime(startStr),
			End:          clockrTime(endStr),
			Duration:     minutes,
			Category:     project,
			EnergyRating: defaultEnergy,
			Source:       sourceClockr,
		})
	}
	return records, rows.Err()
}

// clockr writes RFC 3339 in UTC; the driver may hand DATETIME columns back in
// its own layout.
func clockrTime(s string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05Z07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return s
}
