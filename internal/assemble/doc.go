// Package assemble builds a performer's booklet from resolved placements.
//
// The Assembler copies pages from each placement's source document into a
// new destination document, stamping the tempo, cue and patch on the first
// copied page of every song and the end note on the last one. PDF access goes
// through the Engine, Source, Document and Page interfaces so the page
// selection and annotation rules can be exercised without real files;
// internal/pdfengine provides the production implementation.
//
// Annotation fonts, colours and positions are carried by Style, which is
// built from the [annotations] configuration section.
package assemble
