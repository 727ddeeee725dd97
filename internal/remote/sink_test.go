package remote

import "testing"

func TestParseSpec(t *testing.T) {
	user, host, path, err := ParseSpec("deploy@logs.example.com:/var/log/fixtures/test.log")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if user != "deploy" {
		t.Errorf("user = %q", user)
	}
	if host != "logs.example.com" {
		t.Errorf("host = %q", host)
	}
	if path != "/var/log/fixtures/test.log" {
		t.Errorf("path = %q", path)
	}
}

func TestParseSpecRejectsMalformed(t *testing.T) {
	for _, spec := range []string{
		"",
		"hostonly",
		"@host:/path",
		"user@:/path",
		"user@host",
		"user@host:",
	} {
		if _, _, _, err := ParseSpec(spec); err == nil {
			t.Errorf("ParseSpec(%q) accepted a malformed spec", spec)
		}
	}
}
