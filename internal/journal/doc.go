// Package journal persists conversion request outcomes in SQLite: who asked
// for what, how it ended, and the metadata of the produced file. The audio
// payloads themselves are never stored. The CLI history command reads from
// here.
package journal
