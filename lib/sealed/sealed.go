// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/bureau-foundation/aef/lib/secret"
)

// binaryHeader starts every binary age file.
const binaryHeader = "age-encryption.org/v1\n"

// IsSealed reports whether data is an age file, binary or
// ASCII-armored. Leading whitespace before an armor header is allowed.
func IsSealed(data []byte) bool {
	if bytes.HasPrefix(data, []byte(binaryHeader)) {
		return true
	}
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte(armor.Header))
}

// Seal encrypts plaintext to the given age recipients (age1... public
// keys). With armored set the result is PEM-style text, suitable for
// configuration repositories.
func Seal(plaintext []byte, recipientKeys []string, armored bool) ([]byte, error) {
	if len(recipientKeys) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	recipients := make([]age.Recipient, 0, len(recipientKeys))
	for _, key := range recipientKeys {
		recipient, err := age.ParseX25519Recipient(key)
		if err != nil {
			return nil, fmt.Errorf("parsing recipient key %q: %w", key, err)
		}
		recipients = append(recipients, recipient)
	}

	var ciphertext bytes.Buffer
	var destination io.WriteCloser = nopWriteCloser{&ciphertext}
	if armored {
		destination = armor.NewWriter(&ciphertext)
	}

	writer, err := age.Encrypt(destination, recipients...)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing plaintext to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing age encryption: %w", err)
	}
	if err := destination.Close(); err != nil {
		return nil, fmt.Errorf("finalizing armor: %w", err)
	}
	return ciphertext.Bytes(), nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// Unseal decrypts an age file with the identities read from
// identities (an age identity file: one AGE-SECRET-KEY-1... per line,
// # comments allowed). Surrounding whitespace of the plaintext is
// trimmed, as for plain password files.
//
// The caller must Close the returned buffer.
func Unseal(ciphertext []byte, identities io.Reader) (*secret.Buffer, error) {
	parsed, err := age.ParseIdentities(identities)
	if err != nil {
		return nil, fmt.Errorf("parsing identities: %w", err)
	}

	var source io.Reader = bytes.NewReader(ciphertext)
	if !bytes.HasPrefix(ciphertext, []byte(binaryHeader)) {
		source = armor.NewReader(bytes.NewReader(bytes.TrimLeft(ciphertext, " \t\r\n")))
	}

	reader, err := age.Decrypt(source, parsed...)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	defer secret.Zero(plaintext)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted plaintext: %w", err)
	}
	return secret.NewTrimmed(plaintext)
}

// UnsealFile decrypts ciphertext with the identities in the file at
// identityPath.
func UnsealFile(ciphertext []byte, identityPath string) (*secret.Buffer, error) {
	file, err := os.Open(identityPath)
	if err != nil {
		return nil, fmt.Errorf("opening identity file: %w", err)
	}
	defer file.Close()
	return Unseal(ciphertext, file)
}
