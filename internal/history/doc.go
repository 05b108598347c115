// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history keeps a local SQLite log of chat exchanges.
//
// Every resolved question is stored with the text the user saw, including
// the apology for failed requests. The store uses the pure Go
// modernc.org/sqlite driver, so no cgo toolchain is needed.
//
// # Usage
//
//	store, err := history.Open(path)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	entries, err := store.Recent(ctx, 20)
package history
