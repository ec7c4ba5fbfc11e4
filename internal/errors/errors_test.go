package errors

import (
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(CategorySphinx, SeverityFatal, "sphinx-build failed")
	expected := "sphinx (fatal): sphinx-build failed"
	if err.Error() != expected {
		t.Fatalf("expected %q, got %q", expected, err.Error())
	}

	wrapped := Wrap(fmt.Errorf("exit status 2"), CategorySphinx, SeverityFatal, "sphinx-build failed")
	expected = "sphinx (fatal): sphinx-build failed: exit status 2"
	if wrapped.Error() != expected {
		t.Fatalf("expected %q, got %q", expected, wrapped.Error())
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Wrap(cause, CategoryGit, SeverityError, "publish failed")
	if err.Unwrap() != cause {
		t.Fatal("Unwrap should return the cause")
	}
}

func TestCategoryClassification(t *testing.T) {
	err := ProjectNotFound("/missing")
	if !IsCategory(err, CategoryNotFound) {
		t.Fatal("ProjectNotFound should classify as notfound")
	}
	if IsCategory(err, CategoryBuild) {
		t.Fatal("ProjectNotFound should not classify as build")
	}
	if got := GetCategory(fmt.Errorf("plain")); got != CategoryInternal {
		t.Fatalf("plain errors should map to internal, got %s", got)
	}
}

func TestCategoryThroughWrapping(t *testing.T) {
	inner := DocsNotFound("/proj/docs")
	outer := fmt.Errorf("resolve project: %w", inner)
	if !IsCategory(outer, CategoryNotFound) {
		t.Fatal("category should survive fmt.Errorf wrapping")
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"notfound", ProjectNotFound("/x"), 2},
		{"build", BuildFailed("boom", fmt.Errorf("exit 2")), 1},
		{"serve", BuildOutputMissing("/x/_build"), 1},
		{"plain", fmt.Errorf("plain"), 1},
	}
	for _, tc := range cases {
		if got := ExitCode(tc.err); got != tc.want {
			t.Fatalf("%s: expected exit code %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestWithContext(t *testing.T) {
	err := New(CategoryServe, SeverityFatal, "bind failed").WithContext("addr", "127.0.0.1:1337")
	if err.Context["addr"] != "127.0.0.1:1337" {
		t.Fatal("context field not recorded")
	}
}
