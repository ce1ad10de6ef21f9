// Package model exposes the field classifier. Raw document text goes in, an
// ordered list of typed, labelled and validated field descriptors comes out.
// The classifier lives in internal/model and returns the types aliased here.
//
// Classification is a priority-ordered keyword table matched against the
// lower-cased line (English and German keywords). The table is data: callers
// can prepend rules loaded from YAML with LoadRules or replace it entirely.
// InputSchema bridges a field list to the schema package so that answers
// collected for a generated form are checked by the same validator used for
// API payloads.
package model
