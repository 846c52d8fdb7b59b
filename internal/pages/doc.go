// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

/*
Package pages renders the analysis pages of the dashboard.

Each page is a RenderFunc registered under a PageID in a Registry built once
at startup. A render receives a RenderContext assembled for the request from
the caller's session (username, role, session ID and query parameters) and
returns a Result: an ordered list of artifacts, each a table, a chart
specification or a text summary. Nothing here draws charts; clients do.

Pages:

  - overview:  merged user features, k-means clusters and a PCA scatter
  - portrait:  level, gender, province and age distributions
  - social:    fans regression and a parallel-categories view
  - playlist:  playlists by level, by province, and against fans
  - listening: top songs, score density, song words, correlations
  - account:   the viewer's own profile

Every page that combines tables does it through frame.Pipeline: load the
sources in parallel, aggregate where needed, left-join on user_id and fill
numeric gaps with zero.
*/
package pages
