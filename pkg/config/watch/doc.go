// Package watch triggers configuration reloads.
//
// FileWatcher observes the layer files of a Store and reloads it after the
// files settle; Scheduler runs periodic jobs such as a full resync or history
// pruning on cron schedules. Both leave the previous snapshot active when a
// reload fails.
//
// # Editors and Atomic Saves
//
// Many editors save by writing a temporary file and renaming it over the
// original, which removes the inode a file-level watch was attached to.
// FileWatcher therefore watches the parent directory of each file and
// filters events by file name.
package watch
