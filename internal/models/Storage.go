package models

// StorageVersion is bumped whenever the on-disk snapshot layout changes.
const StorageVersion = 1

// Storage is the persisted form of the metrics history.
type Storage struct {
	Version  int                   `json:"version"`
	Subjects map[string][]Snapshot `json:"subjects"`
}
