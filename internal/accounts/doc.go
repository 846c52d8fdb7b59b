// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

/*
Package accounts is the credential store: a flat users CSV with the columns
username, password_hash, email, phone, created_at and intro.

The file is read once by Open and held in memory. Every write takes the
store's write lock, rewrites the whole file through the CSV engine (a
staging table copied to a temp file, then renamed over the original) and
only then commits the change in memory. A failed write leaves both the file
and the in-memory view unchanged.

Passwords are stored as bcrypt hashes. Rows written by older tooling that
hold a plaintext password still authenticate; the first successful login
rehashes them.

Usage:

	store, err := accounts.Open(ctx, db, "data/users.csv", accounts.Options{
	    BcryptCost: 12,
	    OnWrite:    func() { loader.ClearCache() },
	})
	user, err := store.Register(ctx, accounts.Registration{
	    Username: "alice", Password: "s3cret!", Confirm: "s3cret!",
	})
	user, err = store.Authenticate(ctx, "alice", "s3cret!")
*/
package accounts
