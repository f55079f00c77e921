// Package overture defines the canonical MCP server model.
//
// A [ServerSpec] describes how to launch one MCP server (command, args,
// env, transport) independently of any client's on-disk schema. Per-client
// and per-platform variation is declared on the spec through [ClientRules]
// and [PlatformRules] and resolved by the adapter layer at conversion time;
// the spec itself is immutable for the duration of a sync run.
//
// [MergedConfig] is the product of merging the user-global server file with
// an optional project-local one (project wins by name) and is the sole
// input to the sync engine.
package overture
