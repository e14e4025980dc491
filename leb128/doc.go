// Package leb128 implements the variable-length integer and UTF-8 helpers
// the WebAssembly binary format uses throughout its module encoding:
// section/vector lengths, type indices, and string byte counts.
//
// Two decode shapes are offered. ReadUvarint32/ReadVarint32 read from an
// io.ByteReader the way a streaming decoder would; Uvarint32/PutUvarint32
// operate directly on byte slices with an explicit cursor, which is what
// the section walker needs when it is re-slicing a module in place rather
// than consuming it through an io.Reader.
package leb128
