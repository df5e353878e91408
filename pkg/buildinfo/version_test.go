package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"version: " + Version, "built: " + Date, "go: "} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestTemplate(t *testing.T) {
	if !strings.HasPrefix(Template(), "{{.Name}} version "+Version) {
		t.Errorf("Template() = %q", Template())
	}
}

func TestCacheScope(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "dev"
	if got := CacheScope(); got != "dev" {
		t.Errorf("CacheScope() = %q, want dev", got)
	}
	Version = "v1.4.0"
	if got := CacheScope(); got != "v1.4.0" {
		t.Errorf("CacheScope() = %q, want v1.4.0", got)
	}
}
