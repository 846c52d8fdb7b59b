// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package frame

import (
	"context"
	"errors"
	"testing"
)

func TestPipeline_EndToEnd(t *testing.T) {
	basic := mustTable(t, "basic", NumberColumn("user_id", 1, 2), NumberColumn("level", 5, 3))
	listening := mustTable(t, "listening", NumberColumn("user_id", 1, 1, 2), NumberColumn("playCount", 10, 5, 7))

	plays, err := Aggregate(listening, "user_id", "playCount", Sum, "total_plays")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	res, err := Pipeline{
		Key:      "user_id",
		Anchor:   basic,
		Steps:    []Step{{Name: "plays", Table: plays}},
		FillZero: []string{"total_plays"},
	}.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := map[float64][2]float64{1: {5, 15}, 2: {3, 7}}
	if res.Table.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", res.Table.NumRows())
	}
	for i := 0; i < res.Table.NumRows(); i++ {
		id := mustFloat(t, res.Table.Cell(i, "user_id"))
		level := mustFloat(t, res.Table.Cell(i, "level"))
		total := mustFloat(t, res.Table.Cell(i, "total_plays"))
		if w := want[id]; level != w[0] || total != w[1] {
			t.Errorf("user %v: level=%v total_plays=%v, want %v", id, level, total, w)
		}
	}
	if res.TotalFanOut() != 0 {
		t.Errorf("TotalFanOut() = %d, want 0", res.TotalFanOut())
	}
}

func TestLeftJoin_FanOut(t *testing.T) {
	tests := []struct {
		name          string
		rightIDs      []float64
		wantRows      int
		wantMatched   int
		wantUnmatched int
		wantFanOut    int
	}{
		{"unique keys", []float64{1, 2, 3}, 3, 3, 0, 0},
		{"duplicate key", []float64{1, 1, 1, 2}, 5, 2, 1, 2},
		{"no matches", []float64{9}, 3, 0, 3, 0},
		{"extra right keys dropped", []float64{1, 7, 8}, 3, 1, 2, 0},
		{"empty right", []float64{}, 3, 0, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left := mustTable(t, "basic", NumberColumn("user_id", 1, 2, 3))
			vals := make([]float64, len(tt.rightIDs))
			for i := range vals {
				vals[i] = float64(i)
			}
			right := mustTable(t, "social", NumberColumn("user_id", tt.rightIDs...), NumberColumn("fans_count", vals...))

			out, stats, err := LeftJoin(left, right, "user_id", "social")
			if err != nil {
				t.Fatalf("LeftJoin() error = %v", err)
			}
			if out.NumRows() != tt.wantRows {
				t.Errorf("rows = %d, want %d", out.NumRows(), tt.wantRows)
			}
			if out.NumRows() != left.NumRows()+stats.FanOut {
				t.Errorf("rows %d != anchor %d + fan-out %d", out.NumRows(), left.NumRows(), stats.FanOut)
			}
			if stats.Matched != tt.wantMatched || stats.Unmatched != tt.wantUnmatched || stats.FanOut != tt.wantFanOut {
				t.Errorf("stats = %+v, want matched=%d unmatched=%d fan_out=%d",
					stats, tt.wantMatched, tt.wantUnmatched, tt.wantFanOut)
			}
		})
	}
}

func TestLeftJoin_PreservesAnchorOrderAndCrossKindKeys(t *testing.T) {
	left := mustTable(t, "basic", NumberColumn("user_id", 3, 1, 2))
	right := mustTable(t, "playlist", StringColumn("user_id", "1", "3"), NumberColumn("total_playlists", 4, 9))

	out, _, err := LeftJoin(left, right, "user_id", "playlist")
	if err != nil {
		t.Fatalf("LeftJoin() error = %v", err)
	}
	wantIDs := []float64{3, 1, 2}
	for i, w := range wantIDs {
		if got := mustFloat(t, out.Cell(i, "user_id")); got != w {
			t.Errorf("row %d user_id = %v, want %v", i, got, w)
		}
	}
	if got := mustFloat(t, out.Cell(0, "total_playlists")); got != 9 {
		t.Errorf("user 3 total_playlists = %v, want 9", got)
	}
	if !out.Cell(2, "total_playlists").IsNull() {
		t.Error("unmatched row should carry null")
	}
}

func TestLeftJoin_ColumnCollision(t *testing.T) {
	left := mustTable(t, "basic", NumberColumn("user_id", 1), NumberColumn("score", 1))
	right := mustTable(t, "listening", NumberColumn("user_id", 1), NumberColumn("score", 2))

	out, _, err := LeftJoin(left, right, "user_id", "listening")
	if err != nil {
		t.Fatalf("LeftJoin() error = %v", err)
	}
	if !out.HasColumn("score") || !out.HasColumn("score_listening") {
		t.Errorf("columns = %v, want score and score_listening", out.ColumnNames())
	}
}

func TestLeftJoin_MissingKey(t *testing.T) {
	left := mustTable(t, "basic", NumberColumn("user_id", 1))
	right := mustTable(t, "social", NumberColumn("uid", 1))
	if _, _, err := LeftJoin(left, right, "user_id", "social"); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("error = %v, want ErrMissingColumn", err)
	}
}

func TestFillZero(t *testing.T) {
	tbl := mustTable(t, "t",
		Column{Name: "n", Values: []Value{Null(), Number(2), String("x")}},
		Column{Name: "other", Values: []Value{Null(), Null(), Null()}},
	)
	out, err := FillZero(tbl, "n")
	if err != nil {
		t.Fatalf("FillZero() error = %v", err)
	}
	for i := 0; i < out.NumRows(); i++ {
		if out.Cell(i, "n").IsNull() {
			t.Errorf("row %d still null after FillZero", i)
		}
		if !out.Cell(i, "other").IsNull() {
			t.Errorf("row %d: unlisted column was filled", i)
		}
	}
	if out.Cell(2, "n").Text() != "x" {
		t.Error("FillZero must leave non-null strings alone")
	}
	if !tbl.Cell(0, "n").IsNull() {
		t.Error("FillZero mutated its input")
	}
}

func TestPipeline_Errors(t *testing.T) {
	basic := mustTable(t, "basic", NumberColumn("user_id", 1))

	if _, err := (Pipeline{Key: "user_id"}).Run(context.Background()); err == nil {
		t.Error("expected error for missing anchor")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := Pipeline{Key: "user_id", Anchor: basic, Steps: []Step{{Name: "x", Table: basic}}}
	if _, err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}

	p = Pipeline{Key: "user_id", Anchor: basic, Steps: []Step{{Name: "x", Table: basic, Columns: []string{"nope"}}}}
	if _, err := p.Run(context.Background()); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("error = %v, want ErrMissingColumn", err)
	}
}

func TestLeftJoin_LargeIdentifiersStayDistinct(t *testing.T) {
	// 2^53 and 2^53+1 share one float64.
	anchor := mustTable(t, "basic",
		Column{Name: "user_id", Values: []Value{ParseValue("9007199254740993"), ParseValue("9007199254740995")}},
		NumberColumn("level", 1, 2),
	)
	social := mustTable(t, "social",
		Column{Name: "user_id", Values: []Value{ParseValue("9007199254740992"), ParseValue("9007199254740995")}},
		NumberColumn("fans", 100, 7),
	)

	out, stats, err := LeftJoin(anchor, social, "user_id", "social")
	if err != nil {
		t.Fatalf("LeftJoin() error = %v", err)
	}
	if stats.Matched != 1 || stats.Unmatched != 1 {
		t.Errorf("matched=%d unmatched=%d, want 1 and 1", stats.Matched, stats.Unmatched)
	}
	if got := out.Cell(0, "user_id").Text(); got != "9007199254740993" {
		t.Errorf("row 0 user_id = %s, want 9007199254740993", got)
	}
	if !out.Cell(0, "fans").IsNull() {
		t.Errorf("row 0 fans = %s, want null (no such user in social)", out.Cell(0, "fans").Text())
	}
	if got := mustFloat(t, out.Cell(1, "fans")); got != 7 {
		t.Errorf("row 1 fans = %v, want 7", got)
	}
}
