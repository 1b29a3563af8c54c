package backup

import "fmt"

// ConfigurationError reports an invalid option value. It is returned from
// New before any network activity takes place.
type ConfigurationError struct {
	Option     string
	Constraint string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("#%s %s", e.Option, e.Constraint)
}

// PreconditionError reports that a required indice (the target, or the
// strict-mode plus-one guard) is missing.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

// MaintenanceError reports a failed flush, write-block or segment-merge
// step. The run aborts before snapshot creation.
type MaintenanceError struct {
	Message string
}

func (e *MaintenanceError) Error() string {
	return e.Message
}

// SnapshotError reports that snapshot creation did not end in state SUCCESS.
type SnapshotError struct {
	Indice string
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("failed to create snapshot of indice '%s'", e.Indice)
}
