// Package models defines the core domain models for Wisely Spent.
//
// # Models
//
//   - User: a registered account (or a shadow user created by email/custom id)
//   - Group: a flat list of member user IDs sharing expenses
//   - Expense: an amount fronted by one user and divided into Splits
//   - Split: one participant's owed share of an Expense
//   - Payment: money moved from one user to another to offset a balance
//
// # Design Principles
//
// 1. **IDs only**: relationships are user/group ID strings, never embedded pointers
// 2. **Snapshots**: models arrive from storage as values; balance math never mutates them
// 3. **Scope by GroupID**: an empty GroupID marks a personal (direct) transaction
// 4. **Resolved splits**: Expense.Splits is authoritative; SplitType is informational
package models
