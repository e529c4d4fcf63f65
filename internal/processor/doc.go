// Package processor wires the content store, the generation pipeline and
// the exporters into the operations the CLI exposes: deck and word
// management, story generation, study sessions, import/export and Anki
// packaging.
package processor
