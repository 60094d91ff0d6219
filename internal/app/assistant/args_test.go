package assistant

import (
	"testing"
	"time"
)

func TestStringArgNormalizes(t *testing.T) {
	args := callArgs{
		"title":  "  Buy milk  ",
		"blank":  "   ",
		"null":   nil,
		"number": 42.0,
	}

	if got := args.stringArg("title"); got != "Buy milk" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	for _, key := range []string{"blank", "null", "number", "missing"} {
		if got := args.stringArg(key); got != "" {
			t.Fatalf("expected empty string for %q, got %q", key, got)
		}
	}
}

func TestIsNullDistinguishesMissingFromExplicitNull(t *testing.T) {
	args := callArgs{"due_date": nil, "title": "x"}

	if !args.isNull("due_date") {
		t.Fatal("explicit null must be detected")
	}
	if args.isNull("title") || args.isNull("missing") {
		t.Fatal("only an explicit null counts")
	}
}

func TestIntArgAcceptsJSONNumberShapes(t *testing.T) {
	args := callArgs{
		"float": 25.0,
		"bad":   "ten",
		"null":  nil,
	}

	if got := args.intArg("float", 20); got != 25 {
		t.Fatalf("expected 25, got %d", got)
	}
	if got := args.intArg("bad", 20); got != 20 {
		t.Fatalf("expected default for malformed value, got %d", got)
	}
	if got := args.intArg("null", 20); got != 20 {
		t.Fatalf("expected default for null, got %d", got)
	}
	if got := args.intArg("missing", 20); got != 20 {
		t.Fatalf("expected default for missing key, got %d", got)
	}
}

func TestTimeArgLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"2025-11-25T12:30:00Z": time.Date(2025, 11, 25, 12, 30, 0, 0, time.UTC),
		"2025-11-25T12:30:00":  time.Date(2025, 11, 25, 12, 30, 0, 0, time.UTC),
		"2025-11-25":           time.Date(2025, 11, 25, 0, 0, 0, 0, time.UTC),
	}
	for input, want := range cases {
		got, err := callArgs{"at": input}.timeArg("at")
		if err != nil {
			t.Fatalf("timeArg(%q) failed: %v", input, err)
		}
		if got == nil || !got.Equal(want) {
			t.Fatalf("timeArg(%q) = %v, want %v", input, got, want)
		}
	}

	if got, err := (callArgs{}).timeArg("at"); err != nil || got != nil {
		t.Fatalf("missing key must mean absent, got (%v, %v)", got, err)
	}
	if _, err := (callArgs{"at": "next tuesday"}).timeArg("at"); err == nil {
		t.Fatal("expected an error for an unparsable timestamp")
	}
}

func TestRequireTimeArg(t *testing.T) {
	if _, err := (callArgs{}).requireTimeArg("start"); err == nil {
		t.Fatal("expected an error for a missing required timestamp")
	}

	got, err := callArgs{"start": "2025-06-02T10:00:00Z"}.requireTimeArg("start")
	if err != nil {
		t.Fatalf("requireTimeArg failed: %v", err)
	}
	if !got.Equal(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestClampLimit(t *testing.T) {
	cases := map[int]int{
		-5:  1,
		0:   1,
		1:   1,
		20:  20,
		50:  50,
		500: 50,
	}
	for in, want := range cases {
		if got := clampLimit(in); got != want {
			t.Fatalf("clampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
