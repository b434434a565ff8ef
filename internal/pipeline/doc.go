// Package pipeline binds a row to its category template.
//
// Binding is plain text substitution of {{NAME}} placeholders in a single
// pass. No template language is involved: templates are authored as static
// HTML by designers and a value containing "{{" is never re-expanded.
package pipeline
