package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

// Repo is the GitHub slug releases are fetched from.
const Repo = "Fepozopo/filtr"

// replaced in tests
var (
	detectLatest = selfupdate.DetectLatest
	updateTo     = selfupdate.UpdateTo
)

// isNewer reports whether latest is ahead of the running version. A running
// version that is not semver (a dev build) is always considered older.
func isNewer(latest semver.Version, current string) bool {
	cur, err := semver.ParseTolerant(current)
	if err != nil {
		return true
	}
	return latest.GT(cur)
}

// CheckForUpdates looks up the latest release and, after confirmation on in,
// replaces the running executable with it.
func CheckForUpdates(in *bufio.Reader, out io.Writer, current string) error {
	fmt.Fprintf(out, "Current version: %s\n", current)
	latest, found, err := detectLatest(Repo)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if !found || latest == nil {
		fmt.Fprintf(out, "No releases found for %s.\n", Repo)
		return nil
	}
	fmt.Fprintf(out, "Latest version: %s\n", latest.Version)

	if !isNewer(latest.Version, current) {
		fmt.Fprintln(out, "You are already running the latest version.")
		return nil
	}
	if latest.AssetURL == "" {
		fmt.Fprintf(out, "A new version (%s) is available but there is no downloadable asset for this platform.\n", latest.Version)
		return nil
	}

	answer, err := PromptLine(in, out, fmt.Sprintf("A new version (%s) is available. Update now? (y/N): ", latest.Version))
	if err != nil {
		return fmt.Errorf("failed reading input: %w", err)
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
	default:
		fmt.Fprintln(out, "Update cancelled.")
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}
	fmt.Fprintln(out, "Updating...")
	if err := updateTo(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	fmt.Fprintf(out, "Updated to %s. Restart filtr to use it.\n", latest.Version)
	return nil
}
