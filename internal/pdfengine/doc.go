// Package pdfengine implements the assembler's PDF engine on top of pdfcpu.
//
// Documents are built lazily: CopyPage and DrawText only record which source
// page goes where and what text it carries. Save groups consecutive pages of
// the same source into blocks, trims each block out of its source, stamps
// the recorded text as on-top text watermarks in the standard PDF fonts and
// merges the blocks into the output.
package pdfengine
