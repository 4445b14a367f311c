package pdfvalidation

import (
	"bytes"
	"strings"
	"testing"
)

func TestValidatePDFBytesRejectsNonPDF(t *testing.T) {
	result, err := ValidatePDFBytes([]byte("<html>not a pdf</html>"), NotesLimits)
	if err != nil {
		t.Fatalf("ValidatePDFBytes: %v", err)
	}
	if result.Valid {
		t.Error("expected non-PDF content to be rejected")
	}
	if !strings.Contains(result.Error, "PDF header") {
		t.Errorf("unexpected error message: %q", result.Error)
	}
}

func TestValidatePDFBytesRejectsRenamedFile(t *testing.T) {
	// A JPEG renamed to .pdf must fail on content, not extension
	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x00}, 64)...)
	result, err := ValidatePDFBytes(jpeg, NotesLimits)
	if err != nil {
		t.Fatalf("ValidatePDFBytes: %v", err)
	}
	if result.Valid {
		t.Error("expected renamed JPEG to be rejected")
	}
}

func TestValidatePDFBytesRejectsOversize(t *testing.T) {
	limits := PDFLimits{MaxFileSizeMB: 1, MaxPages: 100, DocumentTypeName: "note"}
	oversized := make([]byte, 2*1024*1024)
	copy(oversized, []byte("%PDF-1.4"))

	result, err := ValidatePDFBytes(oversized, limits)
	if err != nil {
		t.Fatalf("ValidatePDFBytes: %v", err)
	}
	if result.Valid {
		t.Error("expected oversized file to be rejected")
	}
	if !strings.Contains(result.Error, "1MB") {
		t.Errorf("unexpected error message: %q", result.Error)
	}
}

func TestValidatePDFBytesRejectsCorrupt(t *testing.T) {
	// Valid header but garbage body: the parser must fail cleanly
	corrupt := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte{0xAB}, 256)...)
	result, err := ValidatePDFBytes(corrupt, NotesLimits)
	if err != nil {
		t.Fatalf("ValidatePDFBytes: %v", err)
	}
	if result.Valid {
		t.Error("expected corrupt PDF to be rejected")
	}
}

func TestSanitizePDFStripsTrailingGarbage(t *testing.T) {
	pdf := []byte("%PDF-1.4\nbody\n%%EOF\n")
	withGarbage := append(append([]byte{}, pdf...), []byte("TRAILING GARBAGE DATA")...)

	cleaned := sanitizePDF(withGarbage)
	if !bytes.Equal(cleaned, pdf) {
		t.Errorf("sanitizePDF = %q, want %q", cleaned, pdf)
	}
}

func TestSanitizePDFLeavesCleanContent(t *testing.T) {
	pdf := []byte("%PDF-1.4\nbody\n%%EOF\n")
	if !bytes.Equal(sanitizePDF(pdf), pdf) {
		t.Error("sanitizePDF modified clean content")
	}

	// Non-PDF and empty inputs pass through untouched
	other := []byte("not a pdf")
	if !bytes.Equal(sanitizePDF(other), other) {
		t.Error("sanitizePDF modified non-PDF content")
	}
	if len(sanitizePDF(nil)) != 0 {
		t.Error("sanitizePDF of nil should be empty")
	}
}
