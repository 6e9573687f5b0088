package env

import "testing"

func TestGetFallsBackOnBlank(t *testing.T) {
	t.Setenv("REACTMEALS_TEST_VALUE", "  ")
	if got := Get("REACTMEALS_TEST_VALUE", "json"); got != "json" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("REACTMEALS_TEST_VALUE", " console ")
	if got := Get("REACTMEALS_TEST_VALUE", "json"); got != "console" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}

func TestFirstReturnsEarliestSetKey(t *testing.T) {
	t.Setenv("REACTMEALS_TEST_A", "")
	t.Setenv("REACTMEALS_TEST_B", "b")
	if got := First("none", "REACTMEALS_TEST_A", "REACTMEALS_TEST_B"); got != "b" {
		t.Fatalf("expected b, got %q", got)
	}
	t.Setenv("REACTMEALS_TEST_B", "")
	if got := First("none", "REACTMEALS_TEST_A", "REACTMEALS_TEST_B"); got != "none" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
