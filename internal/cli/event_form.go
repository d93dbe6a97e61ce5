package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

// eventDraft collects the raw answers of the add-event form.
type eventDraft struct {
	Name     string
	Currency string
	Amount   string
	Days     string
	LockPrev bool
}

// eventForm builds the add-event form. The lock question is only asked when
// the queue already has an event to follow.
func eventForm(currencies []domain.CurrencyIncome, queueLen int, d *eventDraft) *huh.Form {
	options := make([]huh.Option[string], 0, len(currencies))
	for _, c := range currencies {
		label := c.CurrencyID
		if c.Name != "" && c.Name != c.CurrencyID {
			label = fmt.Sprintf("%s (%s)", c.Name, c.CurrencyID)
		}
		options = append(options, huh.NewOption(label, c.CurrencyID))
	}
	if d.Currency == "" && len(currencies) > 0 {
		d.Currency = currencies[0].CurrencyID
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Name").
			Placeholder("Battle pass").
			Value(&d.Name).
			Validate(validateRequired),
		huh.NewSelect[string]().
			Title("Currency").
			Options(options...).
			Value(&d.Currency),
		huh.NewInput().
			Title("Amount").
			Placeholder("950").
			Value(&d.Amount).
			Validate(validatePositiveAmount),
		huh.NewInput().
			Title("Lasts (days, blank for none)").
			Placeholder("42").
			Value(&d.Days).
			Validate(validateNonNegativeInt),
	}
	if queueLen > 0 {
		fields = append(fields, huh.NewConfirm().
			Title("Chain to the last queued event?").
			Affirmative("Yes").
			Negative("No").
			Value(&d.LockPrev))
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(coinplanHuhTheme()).
		WithShowHelp(false)
}

// toEvent converts the answers into an unsaved event.
func (d eventDraft) toEvent() (domain.SpendingEvent, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(d.Amount))
	if err != nil {
		return domain.SpendingEvent{}, fmt.Errorf("invalid amount %q: %w", d.Amount, err)
	}
	e := domain.SpendingEvent{
		Name:       strings.TrimSpace(d.Name),
		CurrencyID: d.Currency,
		Amount:     amount.InexactFloat64(),
	}
	if s := strings.TrimSpace(d.Days); s != "" {
		days, err := strconv.Atoi(s)
		if err != nil {
			return domain.SpendingEvent{}, fmt.Errorf("invalid days %q: %w", d.Days, err)
		}
		e.DurationDays = &days
	}
	return e, e.Validate()
}
