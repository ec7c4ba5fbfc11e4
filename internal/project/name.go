package project

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
)

// EnvRepoName selects the package name/branding in CI, where the checkout
// directory name is not reliable.
const EnvRepoName = "GITHUB_REPO"

// packageAliases avoids needing common family packages to re-configure
// their published name.
var packageAliases = map[string]string{
	"eth-ape": "ape",
}

var setupNameRe = regexp.MustCompile(`name\s*=\s*['"](.+?)['"]`)

// resolveName determines the package name. Order: explicit override,
// GITHUB_REPO env, setup.py, pyproject.toml, directory basename.
func resolveName(root, override string) string {
	name := override
	if name == "" {
		name = os.Getenv(EnvRepoName)
	}
	if name == "" {
		name = extractFromSetupPy(filepath.Join(root, "setup.py"))
	}
	if name == "" {
		name = extractFromPyproject(filepath.Join(root, "pyproject.toml"))
	}
	if name == "" {
		name = filepath.Base(root)
	}

	if alias, ok := packageAliases[name]; ok {
		return alias
	}
	return name
}

func extractFromSetupPy(path string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	if m := setupNameRe.FindSubmatch(content); m != nil {
		return string(m[1])
	}
	return ""
}

// pyproject mirrors the two places a package name lives in pyproject.toml:
// PEP 621 [project] and legacy [tool.poetry].
type pyproject struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name string `toml:"name"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

func extractFromPyproject(path string) string {
	var pp pyproject
	if _, err := toml.DecodeFile(path, &pp); err != nil {
		return ""
	}
	if pp.Tool.Poetry.Name != "" {
		return pp.Tool.Poetry.Name
	}
	return pp.Project.Name
}
