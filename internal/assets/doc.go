// Package assets reads the files a card is built from: one HTML template
// per category and the logo images referenced by rows.
//
// # Directory Structure
//
//	{templatesDir}/
//	├── promocao.html
//	├── cupom.html
//	├── queda.html
//	└── bc.html
//
//	{logosDir}/
//	└── {any}.png|jpg|svg|...
//
// Both directories are read through FilesystemLoader, which only accepts
// bare file names and verifies, after resolving symlinks, that every path
// stays inside its base directory.
//
// # Caching
//
// Template and logo contents are assumed immutable while a process runs.
// TemplateStore and LogoResolver cache what they read and are safe for
// concurrent use.
package assets
