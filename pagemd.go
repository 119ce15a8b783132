// Package pagemd converts web-page content into clean Markdown for
// consumption by AI assistants. It assembles content records into canonical
// Markdown documents, extracts headings into nested tables of contents,
// generates llms.txt site listings, and records lightweight usage analytics.
//
// This package contains domain types, interfaces, and pure algorithms
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., htmlconv/,
// goquery/, sqlite/, http/).
package pagemd
