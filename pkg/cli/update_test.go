package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

func TestIsNewer(t *testing.T) {
	v := semver.MustParse("1.4.0")
	cases := map[string]bool{"1.3.9": true, "v1.4.0": false, "1.5.0": false, "dev": true}
	for cur, want := range cases {
		if got := isNewer(v, cur); got != want {
			t.Fatalf("isNewer(1.4.0, %q) = %v, want %v", cur, got, want)
		}
	}
}

func stubRelease(t *testing.T, r *selfupdate.Release, found bool, err error) *[]string {
	t.Helper()
	var updated []string
	oldDetect, oldUpdate := detectLatest, updateTo
	detectLatest = func(string) (*selfupdate.Release, bool, error) { return r, found, err }
	updateTo = func(url, exe string) error {
		updated = append(updated, url)
		return nil
	}
	t.Cleanup(func() { detectLatest, updateTo = oldDetect, oldUpdate })
	return &updated
}

func TestCheckForUpdates(t *testing.T) {
	rel := &selfupdate.Release{Version: semver.MustParse("2.0.0"), AssetURL: "https://example.invalid/filtr.tar.gz"}

	updated := stubRelease(t, rel, true, nil)
	var out bytes.Buffer
	if err := CheckForUpdates(bufio.NewReader(strings.NewReader("n\n")), &out, "1.0.0"); err != nil {
		t.Fatalf("CheckForUpdates failed: %v", err)
	}
	if !strings.Contains(out.String(), "Update cancelled.") || len(*updated) != 0 {
		t.Fatalf("declined update ran anyway: %q", out.String())
	}

	out.Reset()
	if err := CheckForUpdates(bufio.NewReader(strings.NewReader("yes\n")), &out, "1.0.0"); err != nil {
		t.Fatalf("CheckForUpdates failed: %v", err)
	}
	if len(*updated) != 1 || (*updated)[0] != rel.AssetURL {
		t.Fatalf("update not applied: %v", *updated)
	}

	out.Reset()
	if err := CheckForUpdates(bufio.NewReader(strings.NewReader("")), &out, "2.0.0"); err != nil {
		t.Fatalf("CheckForUpdates failed: %v", err)
	}
	if !strings.Contains(out.String(), "already running the latest") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestCheckForUpdatesErrors(t *testing.T) {
	stubRelease(t, nil, false, errors.New("rate limited"))
	var out bytes.Buffer
	if err := CheckForUpdates(bufio.NewReader(strings.NewReader("")), &out, "1.0.0"); err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected the lookup error, got %v", err)
	}
	stubRelease(t, nil, false, nil)
	out.Reset()
	if err := CheckForUpdates(bufio.NewReader(strings.NewReader("")), &out, "1.0.0"); err != nil {
		t.Fatalf("no release should not fail: %v", err)
	}
	if !strings.Contains(out.String(), "No releases found") {
		t.Fatalf("unexpected output %q", out.String())
	}
}
