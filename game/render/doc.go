// Package render draws Leader Chess boards as text and SVG.
//
// ASCII output is used by the MCP tools and command line tools; SVG output
// backs the REST endpoint GET /api/sessions/{id}/board.svg. CellSize keeps the
// rendered board within 800x800 pixels, shrinking squares from their 80px
// target on large boards.
package render
