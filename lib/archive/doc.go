// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive implements the aef container: a single-stream,
// password-protected archive of directories and files.
//
// The key is derived from the password with scrypt and a random 64-byte
// salt. Everything after the header is a sequence of AES-256-GCM
// chunks, each sealed under its own random nonce. All integers are
// big-endian.
//
//	Header:  magic[4] = FF 'A' 'E' 'F'
//	         salt[64]
//	         log_n[1] r[4] p[4]
//	         compression[1]   0 none, 1 brotli, 2 zstd, 3 lz4
//
//	Chunk:   length[2]
//	         length == 0: terminator, nothing follows
//	         otherwise:   nonce[12] ciphertext[length] (plaintext + 16-byte tag)
//
//	Entry:   type[1] (0 directory, 1 file)
//	         permissions[4] (0 means none recorded)
//	         path[...]        components joined by 0x1F
//
// Each member is one entry chunk. A file entry is followed by its data
// chunks and a terminator; a directory entry by nothing. The archive
// ends where the stream ends, with no trailer:
//
//	header {entry [data... terminator]}*
//
// The two stream signals are distinct: [Cipher.ReadChunk] returns
// [ErrEndOfData] for a terminator and io.EOF when the input ends
// before a chunk starts. [Decoder.ReadEntry] turns the latter into
// io.EOF ("no more entries") and treats a terminator in entry position
// as a malformed archive.
//
// Paths enter and leave an archive only as [RelativePath], which
// resolves "." and ".." lexically, rejects control and separator
// characters, and normalizes to NFC. Paths read from an archive are
// re-validated, so a crafted archive cannot write outside the
// extraction root.
//
// When compression is on, a file's entire content is one compressed
// stream split across data chunks. Compression runs synchronously on
// both sides; the package starts no goroutines and never logs.
//
// Typical use:
//
//	encoder, err := archive.NewEncoder(out, password, archive.DefaultKDFParams(), archive.Compression{})
//	err = encoder.AppendDirectory("photos", 0o755)
//	err = encoder.AppendFile("photos/cat.jpg", 0o644, file)
//	err = encoder.Close()
//
//	decoder, err := archive.NewDecoder(in, password)
//	for {
//		entry, err := decoder.ReadEntry()
//		if err == io.EOF {
//			break
//		}
//		if entry.Type == archive.File {
//			_, err = decoder.ReadDataTo(sink)
//		}
//	}
package archive
