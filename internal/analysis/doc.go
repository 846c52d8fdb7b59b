// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

/*
Package analysis implements the numeric routines behind the analysis pages.

# Clustering

KMeans partitions feature rows into K groups with k-means++ seeding and
Lloyd iterations. Seeding uses a math/rand/v2 PCG source, so a fixed seed
gives identical labels across runs. Features are not standardised; wide
range columns dominate the distance.

PCA projects rows onto their leading principal components using gonum's
stat.PC on the centred data. Summarize and Interpret describe clusters in
terms of the input features.

# Regression and Fitting

OLS fits y = b0 + X·b by least squares (gonum mat.Dense.Solve) and reports
R² on any split. PolyFit solves the Vandermonde system for a polynomial of
a given degree.

# Distributions

Histogram, KDE (Gaussian kernel, Scott's bandwidth) and Hexbin (the
matplotlib two-lattice hexagonal binning) summarise one or two numeric
columns. Pearson and CorrelationMatrix measure linear association; the
Pearson p-value comes from a Student-t distribution (gonum distuv).

# Counting

ValueCounts, TopN and WordFrequencies count categorical values and tokens.

All functions are pure and safe for concurrent use.
*/
package analysis
