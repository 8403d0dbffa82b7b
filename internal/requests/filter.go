package requests

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seminaires/backend/internal/models"
)

// All is the criterion value meaning "no constraint".
const All = "all"

// Page bounds a result set. A zero Limit means every match.
type Page struct {
	Limit  int
	Offset int
}

// ParsePage reads limit and offset query values. Missing, malformed or
// negative values fall back to "all matches" and no offset.
func ParsePage(limit, offset string) Page {
	var p Page
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		p.Limit = n
	}
	if n, err := strconv.Atoi(offset); err == nil && n > 0 {
		p.Offset = n
	}
	return p
}

// SimpleCriteria are the single-value filters of /filtrer-demandes. Each field
// is either empty, All, or an exact value.
type SimpleCriteria struct {
	Type      string
	Reference string
	Country   string
	Venue     string
	Contact   string
	Start     string
	End       string
	Page      Page
}

// AdvancedCriteria are the set filters of /filtrer-demandes-avances.
type AdvancedCriteria struct {
	Types      []string
	References []string
	Start      string
	End        string
	Page       Page
}

// Filter is a parsed predicate over demandes: SQL conditions with positional
// arguments, ANDed by the store.
type Filter struct {
	Conditions []string
	Args       []any
	Page       Page
}

// Where renders the WHERE clause, or "" when f has no conditions.
func (f Filter) Where() string {
	if len(f.Conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.Conditions, " AND ")
}

// add appends a condition whose single placeholder is written as %d.
func (f *Filter) add(cond string, arg any) {
	f.Args = append(f.Args, arg)
	f.Conditions = append(f.Conditions, fmt.Sprintf(cond, len(f.Args)))
}

func (f *Filter) exact(column, value string) {
	value = strings.TrimSpace(value)
	if value == "" || value == All {
		return
	}
	f.add(column+" = $%d", value)
}

func (f *Filter) anyOf(column string, values []string) {
	values = cleanSet(values)
	if len(values) == 0 {
		return
	}
	f.add(column+" = ANY($%d)", values)
}

// dateRange applies the date policy shared by both filters: a lone start
// pins date_debut, a lone end pins date_fin, both bound the range inclusively.
func (f *Filter) dateRange(start, end *time.Time) {
	switch {
	case start != nil && end != nil:
		f.add("date_debut >= $%d", *start)
		f.add("date_fin <= $%d", *end)
	case start != nil:
		f.add("date_debut = $%d", *start)
	case end != nil:
		f.add("date_fin = $%d", *end)
	}
}

// Criteria parsing needs a logger for malformed dates.
type parser struct {
	logger *zap.Logger
}

// date parses a YYYY-MM-DD query value. A malformed value is logged and
// treated as absent.
func (p parser) date(field, value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	t, err := models.ParseDate(value)
	if err != nil {
		p.logger.Warn("ignoring malformed date", zap.String("field", field), zap.String("value", value), zap.Error(err))
		return nil
	}
	return &t
}

func (p parser) simple(c SimpleCriteria) Filter {
	f := Filter{Page: c.Page}
	f.exact("type", c.Type)
	f.exact("reference", c.Reference)
	f.exact("pays", c.Country)
	f.exact("lieu", c.Venue)
	f.exact("contact", c.Contact)
	f.dateRange(p.date("debut", c.Start), p.date("fin", c.End))
	return f
}

// advanced returns false when no type, reference or valid date was given.
func (p parser) advanced(c AdvancedCriteria) (Filter, bool) {
	f := Filter{Page: c.Page}
	f.anyOf("type", c.Types)
	f.anyOf("reference", c.References)
	f.dateRange(p.date("debut", c.Start), p.date("fin", c.End))
	return f, len(f.Conditions) > 0
}

// cleanSet drops blank entries. All has no meaning inside a set.
func cleanSet(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
