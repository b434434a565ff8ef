// Package sheet decodes an uploaded spreadsheet into rows.
//
// Only the first sheet is read. The first row holds the headers; header
// names are trimmed and lowercased once here, so the rest of the pipeline
// looks fields up without caring how the sheet author capitalised them.
package sheet
