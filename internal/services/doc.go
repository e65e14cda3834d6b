// Package services defines shared utilities consumed by the pipeline stages and
// external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (missing schema, failed inference, bad configuration) so the CLI and the
//     run ledger can report them consistently.
//   - StageError, which records the stage a fatal error surfaced from.
//
// Row-level rejections are not errors: stages drop such rows and report the
// before/after counts instead.
package services
