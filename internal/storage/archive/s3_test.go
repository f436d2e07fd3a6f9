package archive

import (
	"strings"
	"testing"
)

func TestS3Store_ImplementsStore(t *testing.T) {
	var _ Store = (*S3Store)(nil)
}

func TestS3Store_Key(t *testing.T) {
	tests := []struct {
		prefix string
		path   string
		want   string
	}{
		{"", "run.json", "run.json"},
		{"helix", "run.json", "helix/run.json"},
		{"helix/", "run.json", "helix/run.json"},
	}

	for _, tt := range tests {
		s := &S3Store{prefix: strings.TrimSuffix(tt.prefix, "/")}
		got := s.key(tt.path)
		if got != tt.want {
			t.Errorf("key(%q) with prefix %q = %q, want %q", tt.path, tt.prefix, got, tt.want)
		}
	}
}
