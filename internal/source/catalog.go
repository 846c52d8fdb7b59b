// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package source loads the user-behaviour CSV tables into frame.Tables.
//
// Four tables make up the catalog. Each has a fixed file name under the
// data directory and a set of contract columns that must be present;
// extra columns are kept. Loads go through a read-through cache keyed by
// absolute file path, cleared explicitly with ClearCache.
package source

import (
	"fmt"
	"strings"
)

// KeyColumn is the user identifier shared by every table.
const KeyColumn = "user_id"

// Table names.
const (
	Basic     = "basic"
	Listening = "listening"
	Playlist  = "playlist"
	Social    = "social"
)

// Spec describes one source table.
type Spec struct {
	Name    string
	File    string
	Columns []string
}

var catalog = []Spec{
	{
		Name:    Basic,
		File:    "basic_info.csv",
		Columns: []string{KeyColumn, "level", "gender", "province", "birthday"},
	},
	{
		Name:    Listening,
		File:    "listening_records.csv",
		Columns: []string{KeyColumn, "song_name", "playCount", "score"},
	},
	{
		Name:    Playlist,
		File:    "playlist_info.csv",
		Columns: []string{KeyColumn, "total_playlists", "liked_playlist_count", "created_playlist_count"},
	},
	{
		Name:    Social,
		File:    "social_info.csv",
		Columns: []string{KeyColumn, "fans_count", "follows_count"},
	},
}

// Catalog returns the specs of every source table.
func Catalog() []Spec {
	out := make([]Spec, len(catalog))
	for i, s := range catalog {
		s.Columns = append([]string(nil), s.Columns...)
		out[i] = s
	}
	return out
}

// Lookup returns the spec for a table name.
func Lookup(name string) (Spec, error) {
	for _, s := range catalog {
		if s.Name == name {
			s.Columns = append([]string(nil), s.Columns...)
			return s, nil
		}
	}
	names := make([]string, len(catalog))
	for i, s := range catalog {
		names[i] = s.Name
	}
	return Spec{}, fmt.Errorf("unknown source table %q (want one of %s)", name, strings.Join(names, ", "))
}
