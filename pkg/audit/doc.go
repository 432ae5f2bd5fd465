// Package audit records completed actions for compliance and traceability.
//
// A Recorder writes immutable Entry records in one of two modes, chosen per
// action category. ModeInline writes synchronously so a failed audit write
// aborts the guarded mutation; combined with RecordTx and a storage built
// around the business transaction, the entry commits atomically with the
// change it records. ModeBestEffort hands the entry to a supervised
// background dispatcher: the response is never blocked or failed by audit
// storage trouble, and every failure is logged for operational diagnosis.
// The trade-off between the two is deliberate and belongs to the caller.
//
// Entries are written once and never mutated. Retention is enforced
// externally; PGStorage.DeleteOlderThan exists for the archival job.
package audit
