// Package pipeline executes the sorter and splitter against the filesystem
// and collects run statistics.
//
// Types:
//   - SortStats (per-class moved counts, Skipped, Bytes)
//   - SplitStats (per-class segment sizes, Transferred, Kept, Bytes)
//
// Functions:
//   - RunSort(ctx, cfg, log) → *SortStats
//     Discover top-level images → classify by prefix → no-clobber move
//     into <source>/<class>/.
//   - RunSplit(ctx, cfg, log) → *SplitStats
//     Build plan → preflight → create trees → transfer file by file →
//     copy-mode swap of the train directory.
//   - Discover(dir, exts) → []string
//
// Both runners stop between files when ctx is cancelled and return
// ErrInterrupted; completed transfers are not rolled back.
package pipeline
