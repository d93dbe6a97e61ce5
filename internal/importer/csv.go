package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CSV columns. locked_to holds the 1-based data row of the predecessor.
var csvHeader = []string{"name", "currency", "amount", "duration_days", "locked_to"}

// ParseEventsCSV reads spending events from r. The header row is required;
// columns are matched by name so their order is free and only name, currency
// and amount are mandatory. Events get fresh ids and priorities in row order.
func ParseEventsCSV(r io.Reader) ([]domain.SpendingEvent, []error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, []error{fmt.Errorf("csv: missing header row")}
		}
		return nil, []error{fmt.Errorf("csv: reading header: %w", err)}
	}
	cols := make(map[string]int)
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var errs []error
	for _, required := range csvHeader[:3] {
		if _, ok := cols[required]; !ok {
			errs = append(errs, fmt.Errorf("csv: missing column %q", required))
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	now := time.Now().UTC()
	var events []domain.SpendingEvent
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("csv row %d: %w", row, err))
			events = append(events, domain.SpendingEvent{ID: uuid.New().String()})
			continue
		}

		e := domain.SpendingEvent{
			ID:         uuid.New().String(),
			Name:       field(rec, "name"),
			CurrencyID: field(rec, "currency"),
			Priority:   len(events),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		amount, err := decimal.NewFromString(field(rec, "amount"))
		if err != nil {
			errs = append(errs, fmt.Errorf("csv row %d: amount %q: %w", row, field(rec, "amount"), err))
			events = append(events, e)
			continue
		}
		e.Amount = amount.InexactFloat64()

		if v := field(rec, "duration_days"); v != "" {
			days, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("csv row %d: duration_days %q is not a whole number", row, v))
			} else {
				e.DurationDays = &days
			}
		}

		if v := field(rec, "locked_to"); v != "" {
			prev, err := strconv.Atoi(v)
			switch {
			case err != nil:
				errs = append(errs, fmt.Errorf("csv row %d: locked_to %q is not a row number", row, v))
			case prev < 1 || prev >= row:
				errs = append(errs, fmt.Errorf("csv row %d: locked_to %d must name an earlier row", row, prev))
			default:
				id := events[prev-1].ID
				e.LockedToEventID = &id
			}
		}

		if err := e.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("csv row %d: %w", row, err))
		}
		events = append(events, e)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return events, nil
}

// WriteEventsCSV writes q, which must already be in priority order. Locks to
// events outside q, or to later rows, are written as free-floating.
func WriteEventsCSV(w io.Writer, q []domain.SpendingEvent) error {
	row := make(map[string]int, len(q))
	for i, e := range q {
		row[e.ID] = i + 1
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for i, e := range q {
		days := ""
		if e.DurationDays != nil {
			days = strconv.Itoa(*e.DurationDays)
		}
		lockedTo := ""
		if n, ok := row[e.LockedTo()]; ok && e.IsChained() && n <= i {
			lockedTo = strconv.Itoa(n)
		}
		rec := []string{
			e.Name,
			e.CurrencyID,
			decimal.NewFromFloat(e.Amount).String(),
			days,
			lockedTo,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing event %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
