// internal/sysinfo/sysinfo_test.go
package sysinfo

import "testing"

func TestNodeVersionOK(t *testing.T) {
	cases := []struct {
		version string
		ok      bool
	}{
		{"v22.3.0", true},
		{"22.3.0", true},
		{"v23.0.0", true},
		{"v21.9.9", false},
		{"v18.20.4", false},
		{"garbage", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := nodeVersionOK(tc.version); got != tc.ok {
			t.Errorf("nodeVersionOK(%q) = %v, want %v", tc.version, got, tc.ok)
		}
	}
}
