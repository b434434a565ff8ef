// Package cardgen turns the rows of a promotion spreadsheet into print-ready
// cards, one fixed-size single-page PDF per row, packaged in a zip archive.
//
// # Pipeline
//
// A Generator runs one pass over the sheet:
//
//	Init → Loading → Iterating → Packaging → Done
//	                                       ↘ Failed (from any stage)
//
// For each row, in order, the type column is classified into a category
// (rows that match none are skipped), the category template is loaded
// (rows without a template are skipped), the referenced logo is inlined as a
// data URI, placeholders are substituted, and the document is printed by a
// headless browser. Kept cards are named card_001.pdf, card_002.pdf, ... with
// no gaps, whatever rows were skipped in between.
//
// # Rendering
//
// One browser Session is opened per run and closed exactly once, on every
// exit path. Each card is printed in its own incognito context at
// PageWidthPx×PageHeightPx, restricted to the first page with backgrounds
// preserved. Two engines are available: go-rod (default) and chromedp.
//
// # Failure policy
//
// By default a render failure aborts the run (AbortOnError). SkipOnError
// drops the failing row and keeps going. Malformed input aborts before any
// browser is started.
//
// # Example
//
//	gen, err := cardgen.NewGenerator(
//	    cardgen.WithTemplateDir("templates"),
//	    cardgen.WithLogoDir("logos"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var zipBuf bytes.Buffer
//	report, err := gen.Generate(ctx, sheetBytes, &zipBuf)
package cardgen
