package gitrepo

import "testing"

func TestBoolEnvDefault(t *testing.T) {
	cases := []struct {
		val  string
		def  bool
		want bool
	}{
		{"", true, true},
		{"", false, false},
		{"1", false, true},
		{"0", true, false},
		{"true", false, true},
		{"yes", false, true},
		{"off", true, false},
		{"garbage", true, true},
		{"garbage", false, false},
	}
	for _, tc := range cases {
		t.Setenv("CALLSHEET_TEST_BOOL", tc.val)
		if got := boolEnvDefault("CALLSHEET_TEST_BOOL", tc.def); got != tc.want {
			t.Fatalf("boolEnvDefault(%q, %v) = %v, want %v", tc.val, tc.def, got, tc.want)
		}
	}
}

func TestAutoCommitDefaultsOff(t *testing.T) {
	t.Setenv("CALLSHEET_AUTOCOMMIT", "")
	if AutoCommitEnabled() {
		t.Fatalf("auto-commit must be opt-in")
	}
	t.Setenv("CALLSHEET_AUTOCOMMIT", "1")
	if !AutoCommitEnabled() {
		t.Fatalf("CALLSHEET_AUTOCOMMIT=1 must enable auto-commit")
	}
}
