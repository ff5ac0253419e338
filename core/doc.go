// Package core implements the cell actor at the heart of the simulation.
//
// Every grid position is backed by one Cell: a goroutine that owns its
// liveness state and serializes all access through a mailbox. Cells speak
// a closed two-message protocol (state queries and generation-tagged
// neighbor-count updates) and apply an update only when its generation tag
// is strictly newer than their own, which makes delivery idempotent under
// duplicates and immune to stale reordering.
package core
