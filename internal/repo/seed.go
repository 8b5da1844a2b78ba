// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file loads the interview schedule from its CSV source
// into the slots table.
//
// The expected shape mirrors the upstream schedule export: a header row of
// {position, date, time, available} (any column order), dates as 2006-01-02,
// times as 15:04 or 15:04:05. Cell values are cleaned of non-breaking spaces
// and surrounding whitespace before use.
package repo

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-recruit-assistant/internal/domain"
)

// ImportScheduleCSV reads schedule rows from r and inserts them as slots.
// It returns the number of rows inserted. Rows whose identity already exists
// are skipped (counted in the log, not an error), so imports are rerunnable.
func ImportScheduleCSV(ctx context.Context, db *gorm.DB, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[cleanCell(strings.ToLower(h))] = i
	}
	for _, required := range []string{"position", "date", "time", "available"} {
		if _, ok := col[required]; !ok {
			return 0, fmt.Errorf("schedule CSV missing column %q", required)
		}
	}

	inserted, skipped := 0, 0
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return inserted, fmt.Errorf("line %d: %w", line, err)
		}

		position := cleanCell(rec[col["position"]])
		if position == "" {
			return inserted, fmt.Errorf("line %d: empty position", line)
		}
		date, err := domain.NormalizeDate(cleanCell(rec[col["date"]]))
		if err != nil {
			return inserted, fmt.Errorf("line %d: bad date: %w", line, err)
		}
		tod, err := domain.NormalizeTimeOfDay(cleanCell(rec[col["time"]]))
		if err != nil {
			return inserted, fmt.Errorf("line %d: bad time: %w", line, err)
		}
		available := parseAvailable(cleanCell(rec[col["available"]]))

		if _, err := InsertSlot(ctx, db, position, date, tod, available); err != nil {
			low := strings.ToLower(err.Error())
			if strings.Contains(low, "unique constraint failed") ||
				strings.Contains(low, "constraint failed: unique") {
				skipped++
				continue
			}
			return inserted, fmt.Errorf("line %d: %w", line, err)
		}
		inserted++
	}

	log.Info().Int("inserted", inserted).Int("skipped", skipped).Msg("schedule import complete")
	return inserted, nil
}

// SeedSlots imports the schedule CSV at path when the slot table is empty.
// A populated table is left untouched so restarts never clobber bookings.
func SeedSlots(ctx context.Context, db *gorm.DB, path string) error {
	total, err := CountSlots(ctx, db)
	if err != nil {
		return err
	}
	if total > 0 {
		log.Debug().Int64("slots", total).Msg("slot table already populated; skipping seed")
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = ImportScheduleCSV(ctx, db, f)
	return err
}

// cleanCell removes non-breaking spaces and trims whitespace, matching the
// cleanup the upstream schedule export needs.
func cleanCell(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, " ", " "))
}

// parseAvailable accepts the usual truthy spellings; anything else is false.
func parseAvailable(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y", "t":
		return true
	default:
		return false
	}
}
