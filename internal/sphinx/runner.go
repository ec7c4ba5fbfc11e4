package sphinx

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	derrors "git.home.luguber.info/inful/sphinxkit/internal/errors"
	"git.home.luguber.info/inful/sphinxkit/internal/logfields"
)

// EnvSkipSphinx skips the sphinx-build subprocess when set to "1". Used when
// testing the wrapper itself and in CI jobs that only validate the docs
// layout.
const EnvSkipSphinx = "SPHINXKIT_SKIP_SPHINX"

// sphinxBinary is the external renderer entry point, resolved from PATH.
const sphinxBinary = "sphinx-build"

// RunSphinxBuild invokes the external renderer as a child process, rendering
// srcDir into dstPath. Single attempt, fail-fast: a nonzero exit surfaces as
// a BuildFailed error carrying the captured stderr.
func RunSphinxBuild(srcDir, dstPath string) error {
	if err := os.MkdirAll(dstPath, 0o750); err != nil {
		return derrors.WorkspaceError("create output directory", err)
	}

	if os.Getenv(EnvSkipSphinx) == "1" {
		slog.Info("Skipping sphinx-build subprocess", slog.String("reason", EnvSkipSphinx+"=1"))
		return nil
	}

	var stderr bytes.Buffer
	cmd := exec.Command(sphinxBinary, srcDir, dstPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = io.MultiWriter(os.Stderr, &stderr)

	slog.Info("Running sphinx-build", logfields.Path(srcDir), slog.String("output", dstPath))
	if err := cmd.Run(); err != nil {
		return derrors.BuildFailed(stderr.String(), fmt.Errorf("command '%s %s %s' failed: %w", sphinxBinary, srcDir, dstPath, err))
	}
	return nil
}
