// Package models defines the core domain models for tipsplitter.
//
// # Even Split
//
//   - EvenSplitInput: bill amount, tip percentage and head count
//   - EvenSplitTotals: tip and per-person figures derived from the input
//   - HistoryEntry: an immutable snapshot of one even-split calculation
//
// # Itemized
//
//   - Person: one diner with an ordered list of items
//   - Item: a priced line item; the price stays free text until it is computed
//
// # Design Principles
//
//  1. Models carry data only; every derived figure is computed by the
//     calculator package and never stored as a source of truth.
//  2. JSON tags match the storage layout used by the browser app, so rosters
//     and history written by either side stay readable.
//  3. Relationships use ID strings instead of pointers.
package models
