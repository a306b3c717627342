package types

// Status is a type for the lifecycle status of a resource in the database.
// Deleted rows are retained so historical invoice lines can still resolve the
// rate that was applied at posting time.
// Any changes to this type should be reflected in the database schema by running migrations
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)
