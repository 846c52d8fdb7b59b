// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package frame

import (
	"errors"
	"testing"
)

func listeningFixture(t *testing.T) *Table {
	t.Helper()
	return mustTable(t, "listening",
		NumberColumn("user_id", 1, 1, 2, 3, 3, 3),
		Column{Name: "playCount", Values: []Value{
			Number(10), Number(5), Number(7), Number(1), Null(), Number(2),
		}},
	)
}

func TestAggregate_Reductions(t *testing.T) {
	tests := []struct {
		name string
		r    Reduction
		want map[float64]Value
	}{
		{"sum", Sum, map[float64]Value{1: Number(15), 2: Number(7), 3: Number(3)}},
		{"count", Count, map[float64]Value{1: Number(2), 2: Number(1), 3: Number(3)}},
		{"mean", Mean, map[float64]Value{1: Number(7.5), 2: Number(7), 3: Number(1.5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Aggregate(listeningFixture(t), "user_id", "playCount", tt.r, "total")
			if err != nil {
				t.Fatalf("Aggregate() error = %v", err)
			}
			if out.NumRows() != 3 {
				t.Fatalf("rows = %d, want 3", out.NumRows())
			}
			for i := 0; i < out.NumRows(); i++ {
				id := mustFloat(t, out.Cell(i, "user_id"))
				if got := out.Cell(i, "total"); !got.Equal(tt.want[id]) {
					t.Errorf("user %v: got %v, want %v", id, got.Text(), tt.want[id].Text())
				}
			}
		})
	}
}

func TestAggregate_FirstAppearanceOrder(t *testing.T) {
	tbl := mustTable(t, "l", NumberColumn("user_id", 9, 2, 9, 5), NumberColumn("v", 1, 1, 1, 1))
	out, err := Aggregate(tbl, "user_id", "v", Sum, "s")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	want := []float64{9, 2, 5}
	for i, w := range want {
		if got := mustFloat(t, out.Cell(i, "user_id")); got != w {
			t.Errorf("row %d user_id = %v, want %v", i, got, w)
		}
	}
}

// Count sums to the source row count and never exceeds the distinct keys.
func TestAggregate_CountConservesRows(t *testing.T) {
	src := listeningFixture(t)
	out, err := Aggregate(src, "user_id", "playCount", Count, "n")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	total := 0.0
	for i := 0; i < out.NumRows(); i++ {
		total += mustFloat(t, out.Cell(i, "n"))
	}
	if int(total) != src.NumRows() {
		t.Errorf("sum of counts = %v, want %d", total, src.NumRows())
	}
	if out.NumRows() > 3 {
		t.Errorf("rows = %d, want <= distinct ids (3)", out.NumRows())
	}
}

func TestAggregate_Empty(t *testing.T) {
	out, err := Aggregate(Empty("listening", "user_id", "playCount"), "user_id", "playCount", Sum, "total_plays")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if out.NumRows() != 0 {
		t.Errorf("rows = %d, want 0", out.NumRows())
	}
	if names := out.ColumnNames(); len(names) != 2 || names[1] != "total_plays" {
		t.Errorf("columns = %v, want [user_id total_plays]", names)
	}
}

func TestAggregate_Errors(t *testing.T) {
	src := listeningFixture(t)

	if _, err := Aggregate(src, "user_id", "playCount", Reduction("median"), "x"); !errors.Is(err, ErrUnsupportedReduction) {
		t.Errorf("median: error = %v, want ErrUnsupportedReduction", err)
	}
	if _, err := Aggregate(src, "user_id", "score", Sum, "x"); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("missing value column: error = %v, want ErrMissingColumn", err)
	}
	if _, err := Aggregate(src, "user_id", "playCount", Reduction("MEAN"), "x"); !errors.Is(err, ErrUnsupportedReduction) {
		t.Errorf("MEAN: error = %v, want ErrUnsupportedReduction (names are lower case)", err)
	}
}

func TestAggregate_NullKeysAndAllNullGroup(t *testing.T) {
	tbl := mustTable(t, "l",
		Column{Name: "user_id", Values: []Value{Number(1), Null(), Number(2)}},
		Column{Name: "score", Values: []Value{Null(), Number(4), Null()}},
	)
	mean, err := Aggregate(tbl, "user_id", "score", Mean, "avg")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if mean.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2 (null key dropped)", mean.NumRows())
	}
	if !mean.Cell(0, "avg").IsNull() {
		t.Errorf("mean of all-null group = %v, want null", mean.Cell(0, "avg").Text())
	}
	sum, _ := Aggregate(tbl, "user_id", "score", Sum, "s")
	if got := mustFloat(t, sum.Cell(0, "s")); got != 0 {
		t.Errorf("sum of all-null group = %v, want 0", got)
	}
}
