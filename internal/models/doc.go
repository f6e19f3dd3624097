// Package models defines the core domain models for AllInBank.
//
// # Models
//
//   - Game: one poker night session with its own ledger and settings
//   - Player: a normalized player identity registered in a game
//   - LedgerEntry: a single buy-in, rebuy, or cash-out
//   - PlayerBalance: derived per-player totals and net result
//   - Transfer: one payment produced by the settlement engine
//
// Players are identified by name only. The Key field carries the normalized
// comparison form; Name carries the spelling first used for the player.
//
// # Sign convention
//
// Net = total cash-out - total buy-in (including rebuys). Positive means the
// player is owed money, negative means the player owes money. Every layer
// (ledger, calculator, service, export) uses this convention.
//
// # Relationships
//
// Models reference each other by ID or key strings rather than pointers, so
// they can be copied freely between the ledger, the store, and the wire.
package models
