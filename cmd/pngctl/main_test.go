package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/pngctl/internal/pngfile"
)

func writePNG(t *testing.T) string {
	t.Helper()
	ihdr := make([]byte, 13)
	ihdr[3], ihdr[7], ihdr[8], ihdr[9] = 1, 1, 8, 6
	png, err := pngfile.FromChunks([]pngfile.Chunk{
		pngfile.NewChunk(pngfile.TypeIHDR, ihdr),
		pngfile.NewChunk(pngfile.TypeIEND, nil),
	})
	if err != nil {
		t.Fatalf("build png: %v", err)
	}
	path := filepath.Join(t.TempDir(), "in.png")
	if err := os.WriteFile(path, png.Bytes(), 0o644); err != nil {
		t.Fatalf("write png: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PNGCTL_CONFIG", "")
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), err
}

func TestEncodeDecodeRemoveFlow(t *testing.T) {
	path := writePNG(t)

	if _, err := runCLI(t, "encode", path, "ruSt", "hello world"); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := runCLI(t, "decode", path, "ruSt")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != "hello world\n" {
		t.Fatalf("unexpected decode output: %q", out)
	}

	out, err = runCLI(t, "print", path)
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(out, "ruSt\tlength=11") {
		t.Fatalf("unexpected print output: %q", out)
	}

	if _, err := runCLI(t, "-v", "remove", path, "ruSt"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	out, err = runCLI(t, "print", path)
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if out != "No chunks found which could possibly contain messages\n" {
		t.Fatalf("unexpected print output after remove: %q", out)
	}
}

func TestEncodeOutFileAndCompression(t *testing.T) {
	in := writePNG(t)
	out := filepath.Join(t.TempDir(), "out.png")
	msg := strings.Repeat("squeeze ", 64)

	if _, err := runCLI(t, "encode", "--compress", "--level", "best", in, "abCd", msg, out); err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := runCLI(t, "decode", out, "abCd")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != msg+"\n" {
		t.Fatalf("unexpected decode output: %q", decoded)
	}
	if _, err := runCLI(t, "decode", in, "abCd"); err == nil {
		t.Fatalf("expected input file to stay untouched")
	}

	listing, err := runCLI(t, "print", "--format", "json", "--all", out)
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	var parsed struct {
		Chunks []struct {
			Type       string `json:"type"`
			Compressed bool   `json:"compressed"`
		} `json:"chunks"`
	}
	if err := json.Unmarshal([]byte(listing), &parsed); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(parsed.Chunks) != 3 || parsed.Chunks[1].Type != "abCd" || !parsed.Chunks[1].Compressed {
		t.Fatalf("unexpected listing: %+v", parsed)
	}
}

func TestConfigDefaults(t *testing.T) {
	path := writePNG(t)
	cfgPath := filepath.Join(t.TempDir(), "pngctl.toml")
	if err := os.WriteFile(cfgPath, []byte("print_format = \"yaml\"\nprint_all = true\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := runCLI(t, "--config", cfgPath, "print", path)
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(out, "type: IHDR") || !strings.Contains(out, "all: true") {
		t.Fatalf("expected yaml listing of all chunks, got %q", out)
	}
}

func TestCLIErrors(t *testing.T) {
	path := writePNG(t)
	cases := [][]string{
		{},
		{"explode", path},
		{"encode", path, "ruSt"},
		{"encode", path, "IEND", "msg"},
		{"decode", path, "ruSt"},
		{"remove", path, "ruSt"},
		{"print", "--format", "xml", path},
		{"--config", filepath.Join(t.TempDir(), "missing.toml"), "print", path},
	}
	for _, args := range cases {
		if _, err := runCLI(t, args...); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}
}
