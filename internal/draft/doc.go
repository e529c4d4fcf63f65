// Package draft persists in-progress editing state so an interrupted
// edit can be offered for recovery. Each editable surface owns one slot;
// drafts are keyed to the identity of the record being edited.
package draft
