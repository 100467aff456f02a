package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idelchi/topfiles/internal/cli"
)

func writeFile(t *testing.T, root, rel string, size int) {
	t.Helper()

	fullPath := filepath.Join(root, rel)

	err := os.MkdirAll(filepath.Dir(fullPath), 0o750)
	if err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	err = os.WriteFile(fullPath, bytes.Repeat([]byte("x"), size), 0o600)
	if err != nil {
		t.Fatalf("write %s: %v", fullPath, err)
	}
}

// execute runs the command with an empty config file so the user's own
// configuration never leaks into a test.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfg := filepath.Join(t.TempDir(), "config.yaml")

	err := os.WriteFile(cfg, nil, 0o600)
	if err != nil {
		t.Fatalf("write config: %v", err)
	}

	return executeWithConfig(t, cfg, args...)
}

func executeWithConfig(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := cli.New("v1.2.3").Command()
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(t.Context())

	return stdout.String(), err
}

func scanTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	writeFile(t, root, "a.bin", 300)
	writeFile(t, root, "b.bin", 200)
	writeFile(t, root, "sub/c.bin", 900)
	writeFile(t, root, "$skip.bin", 5000)

	return root
}

func Test_Command_Lists_Root_Only_When_Defaults(t *testing.T) {
	t.Parallel()

	root := scanTree(t)

	out, err := execute(t, "--output", "paths", root)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	want := filepath.Join(root, "a.bin") + "\n" + filepath.Join(root, "b.bin") + "\n"
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func Test_Command_Recurses_And_Limits_When_Flags_Set(t *testing.T) {
	t.Parallel()

	root := scanTree(t)

	out, err := execute(t, "-o", "paths", "-d", "2", "-n", "1", root)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if want := filepath.Join(root, "sub", "c.bin") + "\n"; out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func Test_Command_Skips_Prefix_Unless_Cleared(t *testing.T) {
	t.Parallel()

	root := scanTree(t)

	out, err := execute(t, "-o", "paths", "-n", "1", "--prefix", "", root)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if want := filepath.Join(root, "$skip.bin") + "\n"; out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func Test_Command_Reads_Config_File_When_Given(t *testing.T) {
	t.Parallel()

	root := scanTree(t)

	cfg := filepath.Join(t.TempDir(), "topfiles.yaml")

	err := os.WriteFile(cfg, []byte("root: "+root+"\ndepth: 2\nnum: 2\noutput: paths\n"), 0o600)
	if err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := executeWithConfig(t, cfg)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	want := filepath.Join(root, "sub", "c.bin") + "\n" + filepath.Join(root, "a.bin") + "\n"
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}

	// Flags win over the config file.
	out, err = executeWithConfig(t, cfg, "-n", "1")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if want := filepath.Join(root, "sub", "c.bin") + "\n"; out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func Test_Command_Prints_Table_When_Default_Output(t *testing.T) {
	t.Parallel()

	root := scanTree(t)

	out, err := execute(t, root)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	for _, want := range []string{"Top 10 largest files:", "300.00 bytes", "Files found:", "Directories visited:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func Test_Command_Returns_Error_When_Arguments_Invalid(t *testing.T) {
	t.Parallel()

	root := scanTree(t)

	for _, args := range [][]string{
		{"--depth", "-1", root},
		{"--num", "0", root},
		{"--workers", "-2", root},
		{"--output", "xml", root},
		{"--units", "furlongs", root},
		{"--engine", "warp", root},
		{"--depth", "deep", root},
		{root, root},
		{filepath.Join(root, "missing")},
		{filepath.Join(root, "a.bin")},
	} {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("execute(%v) error = nil, want error", args)
		}
	}
}

func Test_Command_Returns_Error_When_Config_File_Missing(t *testing.T) {
	t.Parallel()

	_, err := executeWithConfig(t, filepath.Join(t.TempDir(), "nope.yaml"), t.TempDir())
	if err == nil {
		t.Fatalf("execute error = nil, want error")
	}
}

func Test_Command_Prints_Version(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if out != "v1.2.3\n" {
		t.Fatalf("output = %q, want %q", out, "v1.2.3\n")
	}
}

//nolint:paralleltest // t.Setenv cannot be used in parallel tests
func Test_Command_Reads_Environment_When_Variables_Set(t *testing.T) {
	root := scanTree(t)

	t.Setenv("TOPFILES_NUM", "1")
	t.Setenv("TOPFILES_OUTPUT", "paths")

	out, err := execute(t, root)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if want := filepath.Join(root, "a.bin") + "\n"; out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

//nolint:paralleltest // t.Setenv cannot be used in parallel tests
func Test_Command_Splits_Deny_List_When_Set_From_Environment(t *testing.T) {
	root := scanTree(t)
	writeFile(t, root, "other/d.bin", 800)
	writeFile(t, root, "kept/e.bin", 700)

	t.Setenv("TOPFILES_DENY", "sub, other")

	out, err := execute(t, "-o", "paths", "-d", "2", "-n", "1", root)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if want := filepath.Join(root, "kept", "e.bin") + "\n"; out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func Test_Command_Splits_Deny_List_When_Flag_Comma_Separated(t *testing.T) {
	t.Parallel()

	root := scanTree(t)
	writeFile(t, root, "other/d.bin", 800)
	writeFile(t, root, "kept/e.bin", 700)

	out, err := execute(t, "-o", "paths", "-d", "2", "-n", "1", "--deny", "sub,other", root)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if want := filepath.Join(root, "kept", "e.bin") + "\n"; out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}
