package metrics

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"/job-posts", "/job-posts"},
		{"/job-posts/123", "/job-posts/{id}"},
		{"/users/45", "/users/{id}"},
		{"/health", "/health"},
		{"/", "/"},
	}
	for _, tc := range cases {
		if got := NormalizePath(tc.in); got != tc.want {
			t.Errorf("NormalizePath(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}
