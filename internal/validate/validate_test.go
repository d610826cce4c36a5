package validate_test

import (
	"strings"
	"testing"

	"github.com/bimodwien/full-ecommerce-new/internal/validate"
)

func TestID(t *testing.T) {
	if _, ok := validate.ID("  abc-123_XYZ "); !ok {
		t.Fatal("expected valid id")
	}
	for _, bad := range []string{"", "   ", "has space", "a/b", strings.Repeat("x", 65)} {
		if _, ok := validate.ID(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestEmail(t *testing.T) {
	if _, ok := validate.Email("user@example.com"); !ok {
		t.Fatal("expected valid email")
	}
	for _, bad := range []string{"", "nope", "a@b", "@example.com", strings.Repeat("a", 100) + "@x.com"} {
		if _, ok := validate.Email(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestPageAndLimit(t *testing.T) {
	cases := []struct {
		in   string
		page int
	}{
		{"", 1}, {"0", 1}, {"-3", 1}, {"abc", 1}, {"7", 7},
	}
	for _, c := range cases {
		if got := validate.Page(c.in); got != c.page {
			t.Fatalf("Page(%q) = %d, want %d", c.in, got, c.page)
		}
	}

	limits := []struct {
		in    string
		limit int
	}{
		{"", 10}, {"abc", 10}, {"0", 1}, {"-1", 1}, {"25", 25}, {"500", 100},
	}
	for _, c := range limits {
		if got := validate.Limit(c.in); got != c.limit {
			t.Fatalf("Limit(%q) = %d, want %d", c.in, got, c.limit)
		}
	}
}

func TestSort(t *testing.T) {
	if validate.Sort("price_asc") != "price_asc" || validate.Sort(" price_desc ") != "price_desc" {
		t.Fatal("known sort keys pass through")
	}
	if validate.Sort("sneaky; DROP TABLE products") != "newest" {
		t.Fatal("unknown sort keys fall back to newest")
	}
}

func TestPassword(t *testing.T) {
	if !validate.Password("abcdefg1") {
		t.Fatal("expected valid password")
	}
	for _, bad := range []string{"short1", "allletters", "12345678", strings.Repeat("a1", 40)} {
		if validate.Password(bad) {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
