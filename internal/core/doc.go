// Package core provides the business logic for catalog import operations.
//
// This package is independent of any transport or database. Stores are
// injected through the ProductStore, CategoryStore and AuditStore interfaces,
// so the same code runs behind the HTTP handlers, against PostgreSQL, or
// against the in-memory stores used in tests.
//
// # Import Flow
//
//  1. Input is read into RawRows keyed by canonical field name: [ReadCSV],
//     [ReadXLSX] or [RecordsFromJSON]. Headers and JSON keys may be English
//     or Spanish ("precio", "galeria_1", ...).
//  2. [Service.Import] builds an [ImportRecord] per row with [BuildRecord].
//     Rows with an empty name, a missing or negative price, or a category
//     that cannot be resolved are recorded as failed.
//  3. Each valid row is looked up by slug or SKU and [Mode.Decide] picks
//     insert, update or skip:
//
//	mode             match      no match
//	create           skip       insert
//	update           update     skip
//	upsert           update     insert
//	skip_duplicates  skip       insert
//
//  4. One audit entry summarizing the batch is appended.
//
// Rows are processed one at a time in input order. A failed row never stops
// the batch and earlier writes are not rolled back.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - IMP001-IMP004: batch rejections (empty, no valid rows, too large, mode)
//   - DB001-DB008: database errors (duplicates, constraints, connections)
//   - VAL001-VAL005: row validation errors
//   - FILE001-FILE005: upload file errors
//   - AUTH001-AUTH002: authentication and authorization
//
// # Audit Logging
//
// Imports are logged with high severity and exports with low severity.
// Old audit entries are moved to an archive table on a cron schedule by
// [Service.StartArchiveScheduler].
package core
