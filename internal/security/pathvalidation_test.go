package security

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidatePathWithinDirectory(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"inside", filepath.Join(dir, "snapshot.png"), false},
		{"nested new file", filepath.Join(dir, "run1", "snapshot.png"), false},
		{"dotdot escape", filepath.Join(dir, "..", "evil.png"), true},
		{"absolute elsewhere", "/etc/passwd", true},
		{"sneaky relative", filepath.Join(dir, "a", "..", "..", "evil.png"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePathWithinDirectory(tt.path, dir)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePathWithinDirectory(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePathSymlinkedParent(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()

	link := filepath.Join(dir, "link")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}

	// A new file under a symlink pointing outside the safe dir must be
	// rejected even though the file itself does not exist yet.
	if err := ValidatePathWithinDirectory(filepath.Join(link, "new.png"), dir); err == nil {
		t.Error("expected symlinked parent escape to be rejected")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"session-01.png", "session-01.png"},
		{"a/b\\c", "a_b_c"},
		{"../../etc/passwd", "etc_passwd"},
		{"", "unknown"},
		{"///", "unknown"},
		{"weird  name!!", "weird_name"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
