// Package models defines the domain models persisted by Dangi Dongi.
//
// # Models
//
//   - Calculation: the input of a bill split (people count, payments, display
//     settings). Results are never stored; they are recomputed from the input
//     every time a calculation is read.
//   - Expense: one payment inside a calculation.
//   - User: a registered account that owns saved calculations.
//
// Participants are plain name strings. They are not linked to User accounts.
package models
