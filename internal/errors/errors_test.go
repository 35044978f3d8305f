package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "render error",
			code:    "E100",
			wantMsg: "Unsupported component type",
			wantCat: CategoryRender,
		},
		{
			name:    "decode error",
			code:    "E121",
			wantMsg: "Unknown component name",
			wantCat: CategoryDecode,
		},
		{
			name:    "config error",
			code:    "E140",
			wantMsg: "Invalid configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf("E101", "%s does not support top-level fragment rendering", "RenderAfter")
	if err.Message != "RenderAfter does not support top-level fragment rendering" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryRender {
		t.Errorf("Category = %q, want %q", err.Category, CategoryRender)
	}
	if err.Detail == "" {
		t.Error("Detail should come from the template")
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "index.json")
	if err.Message != `file "index.json" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "index.json" not found`)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestError_Error(t *testing.T) {
	err := New("E100")
	if got, want := err.Error(), "E100: Unsupported component type"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err2 := &Error{Message: "test error"}
	if err2.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", err2.Error(), "test error")
	}

	err3 := New("E160").Wrap(fmt.Errorf("access denied"))
	if got, want := err3.Error(), "E160: Upload failed: access denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestError_WithLocation(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "index.json")
	content := `{
  "type": "div",
  "children": [
    {"type": "Hello"}
  ]
}
`
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("E121").WithLocation(tmpFile, 4, 5)

	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if err.Location.File != tmpFile {
		t.Errorf("Location.File = %q, want %q", err.Location.File, tmpFile)
	}
	if err.Location.Line != 4 || err.Location.Column != 5 {
		t.Errorf("Location = %d:%d, want 4:5", err.Location.Line, err.Location.Column)
	}
	if len(err.Context) == 0 {
		t.Error("Context should not be empty")
	}
}

func TestError_Builders(t *testing.T) {
	err := New("E100").WithSuggestion("Pass a tag name").WithDetail("Custom detail").WithContext([]string{"a"})
	if err.Suggestion != "Pass a tag name" {
		t.Errorf("Suggestion = %q", err.Suggestion)
	}
	if err.Detail != "Custom detail" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if len(err.Context) != 1 {
		t.Errorf("Context = %v", err.Context)
	}
}

func TestError_Wrap(t *testing.T) {
	inner := New("E102")
	outer := New("E100").Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if !stderrors.Is(outer, New("E102")) {
		t.Error("errors.Is should match a wrapped code")
	}
	if stderrors.Is(outer, New("E160")) {
		t.Error("errors.Is should not match an unrelated code")
	}

	var target *Error
	wrapped := fmt.Errorf("context: %w", outer)
	if !stderrors.As(wrapped, &target) || target.Code != "E100" {
		t.Errorf("errors.As failed, got %v", target)
	}
}

func TestCode(t *testing.T) {
	if got := Code(fmt.Errorf("x: %w", New("E104"))); got != "E104" {
		t.Errorf("Code() = %q, want E104", got)
	}
	if got := Code(fmt.Errorf("plain")); got != "" {
		t.Errorf("Code() = %q, want empty", got)
	}
	if got := Code(nil); got != "" {
		t.Errorf("Code(nil) = %q, want empty", got)
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E100") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	ve := New("E100")
	if FromError(ve, "E102") != ve {
		t.Error("FromError should return *Error as-is")
	}

	stdErr := stderrors.New("test error")
	result := FromError(stdErr, "E160")
	if result.Wrapped != stdErr {
		t.Error("Standard error should be wrapped")
	}
	if result.Code != "E160" {
		t.Errorf("Code = %q, want E160", result.Code)
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{"nil location", nil, ""},
		{"with column", &Location{File: "a.json", Line: 10, Column: 5}, "a.json:10:5"},
		{"without column", &Location{File: "a.json", Line: 10}, "a.json:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E121").
		WithContext([]string{`  "children": [`, `    {"type": "Hello"}`, `  ]`}).
		WithSuggestion("Register the component")
	err.Location = &Location{File: "index.json", Line: 4, Column: 14}

	out := err.Format()
	for _, want := range []string{
		"ERROR E121: Unknown component name",
		"index.json:4:14",
		`{"type": "Hello"}`,
		"^",
		"Hint: Register the component",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E100")
	err.Location = &Location{File: "a.json", Line: 2, Column: 3}
	if got, want := err.FormatCompact(), "a.json:2:3: E100: Unsupported component type"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E160").Wrap(stderrors.New("denied"))
	var decoded map[string]any
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &decoded); jerr != nil {
		t.Fatalf("FormatJSON() is not valid JSON: %v", jerr)
	}
	if decoded["code"] != "E160" {
		t.Errorf("code = %v", decoded["code"])
	}
	if decoded["category"] != string(CategoryPublish) {
		t.Errorf("category = %v", decoded["category"])
	}
	if decoded["cause"] != "denied" {
		t.Errorf("cause = %v", decoded["cause"])
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("no codes registered")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
}

func TestGetTemplate(t *testing.T) {
	tmpl, ok := GetTemplate("E101")
	if !ok {
		t.Fatal("E101 should be registered")
	}
	if tmpl.Category != CategoryRender {
		t.Errorf("Category = %q", tmpl.Category)
	}
	if _, ok := GetTemplate("E999"); ok {
		t.Error("E999 should not be registered")
	}
}

func TestRegister(t *testing.T) {
	Register("E998", ErrorTemplate{Category: CategoryCLI, Message: "Custom"})
	defer delete(registry, "E998")

	if New("E998").Message != "Custom" {
		t.Error("registered template not used")
	}
}

func TestWrapText(t *testing.T) {
	if wrapText("", 10) != nil {
		t.Error("empty text should wrap to nil")
	}
	lines := wrapText("one two three four five six", 10)
	for _, line := range lines {
		if len(line) > 10 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	Fprint(&b, New("E180"))
	if !strings.Contains(b.String(), "E180: Invalid command usage") {
		t.Errorf("Fprint(*Error) = %q", b.String())
	}

	b.Reset()
	Fprint(&b, stderrors.New("boom"))
	if !strings.Contains(b.String(), "ERROR: boom") {
		t.Errorf("Fprint(error) = %q", b.String())
	}
}

func TestPlain(t *testing.T) {
	EnableColors()
	got := Plain(New("E121").WithSuggestion("Register it"))
	if strings.Contains(got, "\x1b[") {
		t.Errorf("Plain() kept color codes: %q", got)
	}
	if !strings.HasPrefix(got, "ERROR E121: ") || !strings.Contains(got, "Register it") {
		t.Errorf("Plain() = %q", got)
	}
}
