// Package resource provides handle management for records handed to a
// consumer.
//
// A consumer that cannot hold Go pointers keeps a Handle instead. The
// table maps each handle to the record, its kind and, when the record
// was also written into linear memory, its address there (the rep).
//
// # Handle Table
//
//	table := resource.NewTable()
//
//	// Insert a record, get a handle
//	handle, err := table.Insert(res)
//
//	// Retrieve by handle, optionally checking the kind
//	rec, ok := table.GetTyped(handle, result.KindTransliterationResult)
//
//	// Destroy runs the record's destructor exactly once
//	err = table.Destroy(handle)
//	err = table.Destroy(handle) // released error, nothing destroyed
//
// Handles carry a slot generation. A handle used after Destroy reports
// a released error even when its slot has been reused.
//
// # Borrows
//
// Borrow pins a record while the consumer reads it. Destroy fails with a
// borrowed error until every borrow is returned.
//
// # Memory Representation
//
// InsertWithRep records where the record lives in linear memory. A table
// built with WithRepReleaser frees that representation on Destroy, before
// the Go destructor runs.
//
// # Observers
//
// Observers receive created, destroyed, taken, borrowed and
// borrow-returned events. The runtime uses them for lifecycle logging.
//
// # Memory Management
//
// Records are not garbage collected through the table. Close destroys
// everything still live.
package resource
