package serve

import (
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"git.home.luguber.info/inful/sphinxkit/internal/logfields"
)

// BrowseURL picks the page a browser should open for a build tree. When
// exactly one package has been built the directory listing adds nothing, so
// the URL points straight at its latest docs.
func BrowseURL(baseURL, buildPath string) string {
	entries, err := os.ReadDir(buildPath)
	if err != nil {
		return baseURL
	}

	var packages []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			packages = append(packages, entry.Name())
		}
	}
	if len(packages) == 1 {
		return baseURL + packages[0] + "/latest"
	}
	return baseURL
}

// OpenBrowser launches the system browser at url. Failures are logged, not
// fatal: the server keeps running either way.
func OpenBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		slog.Warn("Failed to open browser", logfields.URL(url), logfields.Error(err))
	}
}
