package analytics

import (
	"fmt"
	"strings"
	"time"
)

// allOption is what the frontend selectors send for "no filter".
const allOption = "all"

// Filter narrows a report down to a species, a group and an inclusive date range.
// A nil field means no constraint.
type Filter struct {
	SpeciesID *string    `json:"speciesId,omitempty"`
	GroupID   *string    `json:"groupId,omitempty"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
}

// ParseFilter validates raw query values once, at the boundary.
func ParseFilter(speciesID, groupID, from, to string) (Filter, error) {
	var f Filter

	if id := selection(speciesID); id != "" {
		f.SpeciesID = &id
	}

	if id := selection(groupID); id != "" {
		f.GroupID = &id
	}

	var err error

	if f.From, err = parseDate(from); err != nil {
		return Filter{}, fmt.Errorf("%w: from: %v", ErrInvalidFilter, err)
	}

	if f.To, err = parseDate(to); err != nil {
		return Filter{}, fmt.Errorf("%w: to: %v", ErrInvalidFilter, err)
	}

	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return Filter{}, fmt.Errorf("%w: from is after to", ErrInvalidFilter)
	}

	return f, nil
}

func selection(v string) string {
	v = strings.TrimSpace(v)
	if v == allOption {
		return ""
	}

	return v
}

func parseDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return &t, nil
	}

	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("expected YYYY-MM-DD, got %q", v)
	}

	return &t, nil
}

// Where renders the filter as a SQL predicate and its positional arguments.
// The predicate starts with 1=1 so callers can keep appending AND clauses.
func (f Filter) Where() (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)

	sb.WriteString("1=1")

	add := func(clause string, v any) {
		args = append(args, v)
		fmt.Fprintf(&sb, " AND %s $%d", clause, len(args))
	}

	if f.SpeciesID != nil {
		add("species_id =", *f.SpeciesID)
	}

	if f.GroupID != nil {
		add("group_id =", *f.GroupID)
	}

	if f.From != nil {
		add("date >=", *f.From)
	}

	if f.To != nil {
		add("date <=", *f.To)
	}

	return sb.String(), args
}
