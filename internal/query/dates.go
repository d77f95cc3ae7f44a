package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	naturaldate "github.com/tj/go-naturaldate"
)

// timeNow is the reference for relative date expressions. Tests pin it.
var timeNow = time.Now

var dateOperators = []string{"<=", ">="}

// NormalizeDate translates one or two date expressions into a filter
// value. One expression keeps its optional <= / >= prefix; exactly two
// form an inclusive range; more than two is an error.
func NormalizeDate(args []string) (FilterOption, error) {
	switch {
	case len(args) == 0:
		return FilterOption{}, fmt.Errorf("%w: no date given", ErrInvalidDate)
	case len(args) > 2:
		return FilterOption{}, ErrTooManyDates
	case len(args) == 2:
		low, err := parseDateExpr(args[0], false)
		if err != nil {
			return FilterOption{}, err
		}
		high, err := parseDateExpr(args[1], false)
		if err != nil {
			return FilterOption{}, err
		}
		return Range(low, high), nil
	default:
		value, err := parseDateExpr(args[0], true)
		if err != nil {
			return FilterOption{}, err
		}
		return Equals(value), nil
	}
}

// parseDateExpr resolves one permissive date expression to YYYY-MM-DD,
// keeping a comparison operator prefix when allowed.
func parseDateExpr(expr string, allowOperators bool) (string, error) {
	expr = strings.ToLower(expr)
	op := ""
	if allowOperators {
		for _, candidate := range dateOperators {
			if strings.Contains(expr, candidate) {
				op = candidate
				expr = strings.TrimSpace(strings.Replace(expr, candidate, "", 1))
				break
			}
		}
	}
	t, err := parseWhen(expr)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, expr)
	}
	return op + t.Format("2006-01-02"), nil
}

// parseWhen accepts both absolute forms ("2024-03-01", "Mar 1 2024") and
// relative English ("yesterday", "2 weeks ago").
func parseWhen(expr string) (time.Time, error) {
	if t, err := dateparse.ParseAny(expr); err == nil {
		return t, nil
	}
	return naturaldate.Parse(expr, timeNow(), naturaldate.WithDirection(naturaldate.Past))
}
