package log

import "testing"

func TestNew(t *testing.T) {
	for _, f := range []string{FormatJSON, FormatConsole, ""} {
		l, err := New("debug", f)
		if err != nil {
			t.Fatalf("format %q: %v", f, err)
		}
		l.Debug("ok")
	}
	if _, err := New("loud", FormatJSON); err == nil {
		t.Error("bad level accepted")
	}
	if _, err := New("info", "xml"); err == nil {
		t.Error("bad format accepted")
	}
	if OrNop(nil) == nil {
		t.Error("OrNop returned nil")
	}
}
