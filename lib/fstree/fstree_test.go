// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fstree

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/bureau-foundation/aef/lib/archive"
	"github.com/bureau-foundation/aef/lib/binhash"
)

var testParams = archive.KDFParams{LogN: 4, R: 8, P: 1}

const testPassword = "fstree test password"

// writeTree creates files under root from a map of slash-separated
// paths to contents. Paths ending in "/" are directories.
func writeTree(t *testing.T, root string, tree map[string]string) {
	t.Helper()
	for path, content := range tree {
		full := filepath.Join(root, filepath.FromSlash(path))
		if path[len(path)-1] == '/' {
			if err := os.MkdirAll(full, 0o755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func packArchive(t *testing.T, root string, compression archive.Compression) ([]byte, []Event) {
	t.Helper()
	var out bytes.Buffer
	encoder, err := archive.NewEncoder(&out, []byte(testPassword), testParams, compression)
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}
	var events []Event
	if err := Pack(context.Background(), encoder, root, func(event Event) { events = append(events, event) }); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if err := encoder.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return out.Bytes(), events
}

func openDecoder(t *testing.T, data []byte) *archive.Decoder {
	t.Helper()
	decoder, err := archive.NewDecoder(bytes.NewReader(data), []byte(testPassword))
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}
	t.Cleanup(func() { decoder.Close() })
	return decoder
}

// snapshot returns every path under root (slash-separated, relative)
// mapped to file content, or "/" for directories.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	result := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relative, _ := filepath.Rel(root, path)
		if relative == "." {
			return nil
		}
		relative = filepath.ToSlash(relative)
		if entry.IsDir() {
			result[relative+"/"] = ""
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		result[relative] = string(content)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func TestWalk_Directory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "photos")
	writeTree(t, root, map[string]string{
		"b.txt":         "b",
		"a/z.txt":       "z",
		"a/inner/":      "",
		"a/inner/x.txt": "x",
	})

	var suffixes []string
	err := Walk(root, func(record Record) error {
		suffix := filepath.ToSlash(record.RelativeSuffix)
		if record.IsDir {
			suffix += "/"
		}
		suffixes = append(suffixes, suffix)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	want := []string{"photos/", "photos/a/", "photos/a/inner/", "photos/a/inner/x.txt", "photos/a/z.txt", "photos/b.txt"}
	if !slices.Equal(suffixes, want) {
		t.Errorf("Walk order = %q, want %q", suffixes, want)
	}
}

func TestWalk_SingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(path, []byte("# notes"), 0o600); err != nil {
		t.Fatal(err)
	}

	var records []Record
	if err := Walk(path, func(record Record) error {
		records = append(records, record)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("Walk yielded %d records, want 1", len(records))
	}
	if records[0].RelativeSuffix != "notes.md" || records[0].IsDir || !records[0].Regular() {
		t.Errorf("record = %+v", records[0])
	}
}

func TestWalk_Missing(t *testing.T) {
	err := Walk(filepath.Join(t.TempDir(), "absent"), func(Record) error { return nil })
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Walk error = %v, want not-exist", err)
	}
}

func TestPackUnpack_RoundTrip(t *testing.T) {
	tree := map[string]string{
		"readme.txt":           "top level\n",
		"empty.bin":            "",
		"docs/":                "",
		"docs/guide.md":        "# guide\n",
		"docs/deep/nested/":    "",
		"docs/deep/nested/a.c": "int main(void) { return 0; }\n",
		"unicode/ファイル.txt":     "こんにちは",
		"with space/file name": "spaces",
		"large.dat":            string(bytes.Repeat([]byte("0123456789"), 3*archive.BufferSize)),
	}

	for _, tag := range []archive.CompressionTag{archive.CompressionNone, archive.CompressionBrotli, archive.CompressionZstd, archive.CompressionLZ4} {
		t.Run(tag.String(), func(t *testing.T) {
			source := filepath.Join(t.TempDir(), "project")
			writeTree(t, source, tree)

			data, events := packArchive(t, source, archive.Compression{Tag: tag, Level: 3})
			for _, event := range events {
				if event.Action != ActionAdd {
					t.Errorf("unexpected pack event %+v", event)
				}
			}

			destination := filepath.Join(t.TempDir(), "out")
			var written []string
			err := Unpack(context.Background(), openDecoder(t, data), destination, func(event Event) {
				written = append(written, filepath.ToSlash(event.Path))
			})
			if err != nil {
				t.Fatalf("Unpack failed: %v", err)
			}

			got := snapshot(t, filepath.Join(destination, "project"))
			want := snapshot(t, source)
			if len(got) != len(want) {
				t.Errorf("extracted %d paths, want %d", len(got), len(want))
			}
			for path, content := range want {
				if got[path] != content {
					t.Errorf("%s: content mismatch (%d bytes, want %d)", path, len(got[path]), len(content))
				}
			}
			if len(written) != len(events) {
				t.Errorf("%d write events for %d add events", len(written), len(events))
			}
			if written[0] != "project" {
				t.Errorf("first extracted member = %q, want the root directory", written[0])
			}
		})
	}
}

func TestPackUnpack_SingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "single.txt")
	if err := os.WriteFile(path, []byte("just one"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, _ := packArchive(t, path, archive.Compression{})
	destination := t.TempDir()
	if err := Unpack(context.Background(), openDecoder(t, data), destination, nil); err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	content, err := os.ReadFile(filepath.Join(destination, "single.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "just one" {
		t.Errorf("content = %q", content)
	}
}

func TestPack_SkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := filepath.Join(t.TempDir(), "tree")
	writeTree(t, root, map[string]string{"target.txt": "target"})
	if err := os.Symlink("target.txt", filepath.Join(root, "link")); err != nil {
		t.Fatal(err)
	}

	data, events := packArchive(t, root, archive.Compression{})

	var skipped int
	for _, event := range events {
		if event.Action == ActionSkip {
			skipped++
			if filepath.Base(event.Path) != "link" || event.Reason == "" {
				t.Errorf("skip event = %+v", event)
			}
		}
	}
	if skipped != 1 {
		t.Errorf("%d skip events, want 1", skipped)
	}

	var paths []string
	if err := List(context.Background(), openDecoder(t, data), func(item Item) error {
		paths = append(paths, filepath.ToSlash(item.Path.String()))
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(paths, []string{"tree", "tree/target.txt"}) {
		t.Errorf("archived paths = %q", paths)
	}
}

func TestUnpack_RefusesOverwrite(t *testing.T) {
	source := filepath.Join(t.TempDir(), "data")
	writeTree(t, source, map[string]string{"file.txt": "new"})
	data, _ := packArchive(t, source, archive.Compression{})

	destination := t.TempDir()
	writeTree(t, destination, map[string]string{"data/file.txt": "existing"})

	err := Unpack(context.Background(), openDecoder(t, data), destination, nil)
	if !errors.Is(err, fs.ErrExist) {
		t.Errorf("Unpack error = %v, want exist error", err)
	}
	content, _ := os.ReadFile(filepath.Join(destination, "data", "file.txt"))
	if string(content) != "existing" {
		t.Errorf("existing file was modified: %q", content)
	}
}

func TestUnpack_DestinationIsFile(t *testing.T) {
	source := filepath.Join(t.TempDir(), "data")
	writeTree(t, source, map[string]string{"f": "x"})
	data, _ := packArchive(t, source, archive.Compression{})

	destination := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(destination, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Unpack(context.Background(), openDecoder(t, data), destination, nil); err == nil {
		t.Error("Unpack into a file should fail")
	}
}

func TestUnpack_WrongPassword(t *testing.T) {
	source := filepath.Join(t.TempDir(), "data")
	writeTree(t, source, map[string]string{"f": "x"})
	data, _ := packArchive(t, source, archive.Compression{})

	decoder, err := archive.NewDecoder(bytes.NewReader(data), []byte("not the password"))
	if err != nil {
		t.Fatal(err)
	}
	defer decoder.Close()

	destination := filepath.Join(t.TempDir(), "out")
	err = Unpack(context.Background(), decoder, destination, nil)
	if archive.KindOf(err) != archive.KindDecryption {
		t.Errorf("Unpack error = %v, want decryption error", err)
	}
	if entries, _ := os.ReadDir(destination); len(entries) != 0 {
		t.Errorf("wrong password still extracted %d entries", len(entries))
	}
}

func TestUnpack_Cancelled(t *testing.T) {
	source := filepath.Join(t.TempDir(), "data")
	writeTree(t, source, map[string]string{"f": "x"})
	data, _ := packArchive(t, source, archive.Compression{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Unpack(ctx, openDecoder(t, data), t.TempDir(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Unpack error = %v, want context.Canceled", err)
	}
}

func TestList_DigestsAndSizes(t *testing.T) {
	root := filepath.Join(t.TempDir(), "set")
	writeTree(t, root, map[string]string{
		"one.txt": "first file",
		"sub/":    "",
		"zero":    "",
	})
	data, _ := packArchive(t, root, archive.Compression{Tag: archive.CompressionZstd})

	items := make(map[string]Item)
	if err := List(context.Background(), openDecoder(t, data), func(item Item) error {
		items[filepath.ToSlash(item.Path.String())] = item
		return nil
	}); err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(items) != 4 {
		t.Fatalf("List reported %d items, want 4", len(items))
	}
	one := items["set/one.txt"]
	if one.Type != archive.File || one.Size != int64(len("first file")) {
		t.Errorf("one.txt = %+v", one)
	}
	if one.Digest != binhash.Sum([]byte("first file")) {
		t.Errorf("one.txt digest = %s", one.Digest)
	}
	if zero := items["set/zero"]; zero.Size != 0 || zero.Digest != binhash.Sum(nil) {
		t.Errorf("zero = %+v", zero)
	}
	if sub := items["set/sub"]; sub.Type != archive.Directory || sub.Size != 0 {
		t.Errorf("sub = %+v", sub)
	}
}

func TestList_StopsOnCallbackError(t *testing.T) {
	root := filepath.Join(t.TempDir(), "set")
	writeTree(t, root, map[string]string{"a": "a", "b": "b"})
	data, _ := packArchive(t, root, archive.Compression{})

	stop := errors.New("stop")
	calls := 0
	err := List(context.Background(), openDecoder(t, data), func(Item) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Errorf("List = %v after %d calls, want stop after 1", err, calls)
	}
}
