package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"nekobudget/internal/core"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 1 {
		return 0, core.Invalid(fmt.Errorf("invalid id %q", s))
	}
	return id, nil
}

// parseOptionalDate returns the zero Date for "", which the service reads
// as today.
func parseOptionalDate(s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s)
}

// parseMonth returns today's month for "".
func parseMonth(s string, today core.Date) (core.YearMonth, error) {
	if strings.TrimSpace(s) == "" {
		return today.Period(), nil
	}
	return core.ParseYearMonth(s)
}

func parseGoal(s string) (core.Money, error) {
	if strings.TrimSpace(s) == "" {
		return core.Money{}, nil
	}
	return core.ParseBalance(s)
}

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cells ...any) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(tw, strings.Join(parts, "\t"))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func dueDay(d int) string {
	if d < 1 {
		return "-"
	}
	return strconv.Itoa(d)
}
