// Package tracker implements the domain core of a personal finance
// tracker: accounts with asset/liability classification, investment
// holdings made of purchase lots, FIFO disposal, cash transactions with
// classification-aware balance mutation, and period budgets with a
// running spent accumulator.
//
// The core functionalities include:
//   - Investment Ledger: purchase lots per holding, disposed of oldest
//     first (FIFO), with zero-quantity lots and empty holdings pruned.
//   - Balance Mutator: the signed balance delta of a cash transaction,
//     derived from the transaction type and the account classification.
//     Liability balances are stored positive-as-owed.
//   - Budget Accumulator: expense and payment transactions referencing a
//     budget increment its spent total at creation time; deleting a
//     transaction reverses both balance and budget effects.
//   - Transaction Log: append-only records, created once, never mutated.
//
// Persistence lives in the store package, price lookup in marketdata, the
// HTTP surface in server, and the CLI in cmd. This package itself is
// purely in-memory and side-effect free apart from clock reads.
package tracker
