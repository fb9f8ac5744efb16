// Package quire is the Composition Root for the Quire notes backend.
//
// It connects the note domain and its wallet authorization policy (pkg/core,
// pkg/wallet) with the storage adapters (pkg/adapters) using the Hexagonal
// Architecture pattern.
//
// Every note belongs to the Ethereum wallet that created it. Writes carry a
// personal_sign signature that must recover to that wallet; reads and listings
// are scoped to the wallet named by the caller.
//
// Adapters:
//
//   - fs: one Markdown file per note with YAML front matter, optionally versioned with Git.
//   - sqlite: a single database file (pure Go driver).
//   - redis: msgpack records with per-author indexes.
//
// Usage:
//
//	svc, err := quire.Open("sqlite:///notes.db", quire.WithLogger(logger))
//
//	note, err := svc.CreateNote(ctx, core.CreateRequest{
//		Title:   "groceries",
//		Content: "milk",
//		Authorization: core.Authorization{
//			Author:    "0x...",
//			Message:   "create groceries",
//			Signature: "0x...",
//		},
//	})
package quire
