package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom returns a human-friendly distance from now, such as "In 3w".
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(t.Sub(now).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// FormatDate renders a calendar date in the planner's layout.
func FormatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

// FormatOptionalDate renders t or a dimmed placeholder.
func FormatOptionalDate(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return FormatDate(*t)
}

// FormatAmount renders d with a fixed number of decimals and thousands
// separators, e.g. 12,500.50.
func FormatAmount(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}

// FormatFloat is FormatAmount for raw float balances.
func FormatFloat(v float64, places int32) string {
	return FormatAmount(decimal.NewFromFloat(v).Round(places), places)
}

// FormatDays renders an optional duration in days.
func FormatDays(days *int) string {
	if days == nil || *days == 0 {
		return Dim("--")
	}
	if *days%7 == 0 {
		return fmt.Sprintf("%dw", *days/7)
	}
	return fmt.Sprintf("%dd", *days)
}

// FormatGrowth renders a weekly growth rate such as "+2.5%/wk".
func FormatGrowth(pct float64) string {
	if pct == 0 {
		return Dim("--")
	}
	return fmt.Sprintf("%+g%%/wk", pct)
}

// CurrencyBadge returns a purple-styled currency label.
func CurrencyBadge(id string) string {
	if id == "" {
		return StyleDim.Render("--")
	}
	return StylePurple.Render(id)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Position renders a 1-based queue position as "#n".
func Position(n int) string {
	return fmt.Sprintf("#%d", n)
}
