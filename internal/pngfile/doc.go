// Package pngfile reads and writes the PNG chunk container.
//
// Ownership boundary:
// - chunk type codes and their property bits
// - length-prefixed, CRC-checked chunk records
// - the signed container: parse, mutate, serialize
//
// Pixel data and compression are never interpreted; every chunk payload is
// opaque bytes. The package does no I/O and never logs.
package pngfile
