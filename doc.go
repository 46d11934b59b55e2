// Package letterpdf paginates and exports letter-style documents to PDF.
//
// A letter document is a fixed header, a content flow of title, info
// block, and variable-length body, and a footer carried only on the last
// page. The engine renders the letter in headless Chrome, measures the
// rendered regions, converts pixel geometry to millimetres, slices the
// content raster into page-sized chunks, and composes one PDF page per
// chunk with the header regenerated per page so its "page N of M"
// counter stays correct.
//
// # Quick Start
//
// Create an exporter, export a document, and close when done:
//
//	exp, err := letterpdf.NewExporter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exp.Close()
//
//	result, err := exp.Export(ctx, letterpdf.DocumentContent{
//	    Code:      "COM-2024-0193",
//	    Subject:   "Notice of hearing",
//	    Sender:    "M. Duarte",
//	    Recipient: "R. Quintero",
//	    BodyText:  "First paragraph.\n\nSecond paragraph.",
//	    CreatedAt: time.Now(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("COM-2024-0193.pdf", result.PDF, 0644)
//
// The result also carries the pagination plan that produced the pages,
// useful for verifying slice boundaries.
//
// # Export Pipeline
//
// Each export runs these stages in order:
//
//  1. Content formatting (body text to sanitized paragraph blocks)
//  2. Letter rendering in headless Chrome (go-rod)
//  3. Image join (embedded images awaited, failures replaced)
//  4. Layout measurement (pixel geometry to millimetres)
//  5. Pagination (content raster sliced into page-sized chunks)
//  6. Page assembly (header + slice + optional footer per PDF page)
//
// Exports are serialized: the engine owns a single live rendering
// surface, and two exports never interleave. Use ExporterPool when a
// server needs several browsers.
//
// # Page Estimation
//
// EstimatePages predicts the page count from body text alone, without
// touching the browser, for live feedback while a user is composing. The
// estimate is advisory and can disagree with the exported count by one
// page near boundaries.
//
// # Browser Requirements
//
// Rendering requires Chrome/Chromium. The go-rod library downloads a
// managed Chromium on first run. For containers and CI, set
// ROD_NO_SANDBOX=1 and optionally ROD_BROWSER_BIN for a custom binary.
package letterpdf
