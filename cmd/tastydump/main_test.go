package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// buildFixture assembles a minimal on-disk artifact: a name table (via the
// same wire encoding tastybits.Cursor decodes) holding "p" and "x", followed
// by a PACKAGE statement declaring one VALDEF "x: <pkg p>".
func buildFixture(t *testing.T) string {
	t.Helper()

	var buf []byte
	appendNat := func(v uint64) {
		for v >= 0x80 {
			buf = append(buf, byte(v)|0x80)
			v >>= 7
		}
		buf = append(buf, byte(v))
	}
	appendByte := func(b byte) { buf = append(buf, b) }
	appendBytes := func(bs []byte) { buf = append(buf, bs...) }

	// Name table: 2 entries, both Simple ("p", "x").
	appendNat(2)
	for _, s := range []string{"p", "x"} {
		appendByte(1) // entrySimple
		appendNat(uint64(len(s)))
		appendBytes([]byte(s))
	}

	// ASTs section: PACKAGE { TYPEREFpkg(1) VALDEF { nameref(2) TYPEREFpkg(1) EMPTYTREE } }
	const (
		tagVALDEF     = 1
		tagPACKAGE    = 7
		tagTYPEREFpkg = 36
		tagEMPTYTREE  = 0
	)
	valBody := []byte{}
	appendTo := func(dst *[]byte, bs []byte) { *dst = append(*dst, bs...) }
	natBytes := func(v uint64) []byte {
		var out []byte
		for v >= 0x80 {
			out = append(out, byte(v)|0x80)
			v >>= 7
		}
		return append(out, byte(v))
	}
	appendTo(&valBody, natBytes(2))
	appendTo(&valBody, []byte{tagTYPEREFpkg})
	appendTo(&valBody, natBytes(1))
	appendTo(&valBody, []byte{tagEMPTYTREE})

	valDef := []byte{tagVALDEF}
	valDef = append(valDef, natBytes(uint64(len(valBody)))...)
	valDef = append(valDef, valBody...)

	pkgBody := []byte{tagTYPEREFpkg}
	pkgBody = append(pkgBody, natBytes(1)...)
	pkgBody = append(pkgBody, valDef...)

	pkg := []byte{tagPACKAGE}
	pkg = append(pkg, natBytes(uint64(len(pkgBody)))...)
	pkg = append(pkg, pkgBody...)

	buf = append(buf, pkg...)

	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.tasty")
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestRunDecodesFixture(t *testing.T) {
	path := buildFixture(t)
	code, out, errOut := captureOutput(t, func() int {
		return run(path)
	})
	if code != 0 {
		t.Fatalf("run exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	if !strings.Contains(out, "symbols created:") {
		t.Fatalf("expected a symbol count line, got:\n%s", out)
	}
}

func TestRunMissingFile(t *testing.T) {
	code, _, errOut := captureOutput(t, func() int {
		return run(filepath.Join(t.TempDir(), "does-not-exist.tasty"))
	})
	if code == 0 {
		t.Fatalf("expected a nonzero exit for a missing file")
	}
	if !strings.Contains(errOut, "error:") {
		t.Fatalf("expected an error message on stderr, got:\n%s", errOut)
	}
}

func captureOutput(t *testing.T, fn func() int) (code int, stdout string, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stdout: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stderr: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code = fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	outBytes, _ := io.ReadAll(rOut)
	errBytes, _ := io.ReadAll(rErr)
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}
