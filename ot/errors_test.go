package ot

import (
	"errors"
	"fmt"
	"testing"
)

// TestErrorSeverity verifies the ErrorSeverity String() method.
func TestErrorSeverity(t *testing.T) {
	tests := []struct {
		severity ErrorSeverity
		expected string
	}{
		{SeverityCritical, "CRITICAL"},
		{SeverityMajor, "MAJOR"},
		{SeverityMinor, "MINOR"},
		{ErrorSeverity(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		result := tt.severity.String()
		if result != tt.expected {
			t.Errorf("ErrorSeverity(%d).String() = %q; want %q", tt.severity, result, tt.expected)
		}
	}
}

// TestFontError verifies FontError creation and formatting.
func TestFontError(t *testing.T) {
	tests := []struct {
		name     string
		err      FontError
		expected string
	}{
		{
			name: "Error with offset",
			err: FontError{
				Table:    T("GSUB"),
				Section:  "LookupType6",
				Issue:    "Buffer too small",
				Severity: SeverityCritical,
				Offset:   1234,
			},
			expected: "[CRITICAL] GSUB/LookupType6 at offset 1234: Buffer too small",
		},
		{
			name: "Error without offset",
			err: FontError{
				Table:    T("GPOS"),
				Section:  "LookupType2",
				Issue:    "Invalid format",
				Severity: SeverityMajor,
				Offset:   0,
			},
			expected: "[MAJOR] GPOS/LookupType2: Invalid format",
		},
		{
			name: "Minor error",
			err: FontError{
				Table:    T("GDEF"),
				Section:  "GlyphClassDef",
				Issue:    "Missing coverage",
				Severity: SeverityMinor,
				Offset:   0,
			},
			expected: "[MINOR] GDEF/GlyphClassDef: Missing coverage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.Error()
			if result != tt.expected {
				t.Errorf("FontError.Error() = %q; want %q", result, tt.expected)
			}
		})
	}
}

// TestFontErrorIs verifies that format errors survive wrapping and recovery.
func TestFontErrorIs(t *testing.T) {
	err := catchRaised(T("GPOS"), "MarkArray", 12)
	if !errors.Is(err, ErrFontFormat) {
		t.Fatalf("expected recovered error to match ErrFontFormat, is %v", err)
	}
	wrapped := fmt.Errorf("layout failed: %w", err)
	var fe FontError
	if !errors.As(wrapped, &fe) {
		t.Fatalf("expected wrapped error to contain a FontError")
	}
	if fe.Table != T("GPOS") || fe.Offset != 12 || fe.Severity != SeverityCritical {
		t.Errorf("unexpected font error %+v", fe)
	}
	if errors.Is(errors.New("other"), ErrFontFormat) {
		t.Errorf("unrelated error must not match ErrFontFormat")
	}
	if err := catchRaised(T("GSUB"), "Coverage", -4); err.(FontError).Offset != 0 {
		t.Errorf("negative offsets are reported as 0, is %d", err.(FontError).Offset)
	}
}

func catchRaised(table Tag, section string, offset int) (err error) {
	defer CatchFormatError(&err)
	RaiseFormatError(table, section, offset, "test")
	return nil
}
