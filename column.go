package main

import "github.com/andareed/siftly-labeler/views"

type ColumnRole int

const (
	RoleNormal ColumnRole = iota
	RolePrimary
	RoleSecondary
)

type ColumnMeta struct {
	Column   views.Column
	Role     ColumnRole
	MinWidth int
	Weight   float64
	Width    int
}

func roleFor(c views.Column) ColumnRole {
	switch c {
	case views.ColumnTimestamp:
		return RolePrimary
	case views.ColumnID:
		return RoleSecondary
	default:
		return RoleNormal
	}
}

func defaultMinWidthForRole(r ColumnRole) int {
	switch r {
	case RolePrimary:
		return 21 // "2006-01-02 15:04:05" plus padding
	case RoleSecondary:
		return 8
	default:
		return 9
	}
}

func defaultWeightForRole(r ColumnRole) float64 {
	switch r {
	case RolePrimary:
		return 2.0
	case RoleSecondary:
		return 0.5
	default:
		return 1.0
	}
}

func defaultColumns() []ColumnMeta {
	cols := make([]ColumnMeta, len(views.Columns))
	for i, c := range views.Columns {
		role := roleFor(c)
		cols[i] = ColumnMeta{
			Column:   c,
			Role:     role,
			MinWidth: defaultMinWidthForRole(role),
			Weight:   defaultWeightForRole(role),
		}
	}
	return cols
}

// layoutColumns gives every column its minimum and shares what is left by
// weight. When even the minimums do not fit, columns keep their minimum
// and the row is truncated on render.
func layoutColumns(cols []ColumnMeta, totalWidth int) []ColumnMeta {
	if totalWidth <= 0 {
		return cols
	}

	minSum := 0
	weightSum := 0.0
	for _, c := range cols {
		minSum += c.MinWidth
		weightSum += c.Weight
	}

	if minSum >= totalWidth {
		for i := range cols {
			cols[i].Width = min(cols[i].MinWidth, totalWidth)
		}
		return cols
	}

	remaining := totalWidth - minSum
	for i := range cols {
		extra := 0
		if weightSum > 0 {
			extra = int(float64(remaining) * (cols[i].Weight / weightSum))
		}
		cols[i].Width = cols[i].MinWidth + extra
	}
	return cols
}
