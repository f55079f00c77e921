// Package client provides the adapter framework that translates canonical
// MCP server definitions into each AI-assistant client's on-disk schema.
//
// An [Adapter] encapsulates one client: where its config file lives per
// platform, which transports it supports, whether the launcher must expand
// ${VAR} env tokens on its behalf, and how a resolved entry is encoded.
// [Resolve] implements the shared filter-then-override algorithm; adapters
// differ only in paths, capabilities and per-entry encoding.
//
// The [Registry] is a constructed value injected into the sync engine and
// discovery service at startup. Lookup by unknown name fails loudly so a
// mistyped client id cannot turn a sync into a silent no-op.
package client
