// Package twfolio keeps a personal ledger of Taiwan equity trades and
// derives from it the current holdings and their profit.
//
// The core functionalities include:
//   - Ledger: an append-only list of buy and sell transactions, stored by a
//     [Store] (JSONL file, SQLite) and exchanged as CSV with spreadsheets.
//   - Accounting: [Reduce] replays the ledger into per-security positions
//     using the moving average cost method; realized profit is booked at
//     each sell against the average cost of every buy so far.
//   - Valuation: a [PriceResolver] prices holdings from a short lived cache,
//     a bulk price snapshot refreshed in the background, and a live quote
//     provider as last resort. Unpriceable holdings are worth zero, they
//     never fail a report.
//   - Reporting: a [Summarizer] combines both into a [Summary], one [Line]
//     per security plus portfolio totals.
//
// Security codes are market qualified: "2330.TW" is listed on TWSE,
// "6488.TWO" is traded over the counter.
package twfolio
