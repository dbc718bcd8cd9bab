package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/readmecat/readmecat/internal/test"
)

// writeFile drops contents into dir under name and returns the full path.
func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCLIRun_version(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	code := NewCLI(out, errOut).Run([]string{name, "-version"})
	if code != exitOK {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	assert.Contains(t, out.String(), "readmecat v")
}

func TestCLIRun_help(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	code := NewCLI(out, errOut).Run([]string{name, "-h"})
	if code != exitOK {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	assert.Contains(t, errOut.String(), "Usage:")
}

func TestCLIRun_usageErrors(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "in.tmpl", "no placeholders")
	out := filepath.Join(dir, "out.md")

	cases := []struct {
		name string
		args []string
	}{
		{"no_args", []string{}},
		{"one_arg", []string{tmpl}},
		{"three_args", []string{tmpl, out, "extra"}},
		{"unknown_flag", []string{"-no-such-flag", tmpl, out}},
		{"bad_log_level", []string{"-log-level", "NOISY", tmpl, out}},
		{"missing_config", []string{
			"-config", filepath.Join(dir, "nope.toml"), tmpl, out}},
		{"bad_perms", []string{"-config",
			writeFile(t, dir, "perms.toml", "[render]\nperms = \"worldwide\"\n"),
			tmpl, out}},
	}

	for i, tc := range cases {
		t.Run(fmt.Sprintf("%d_%s", i, tc.name), func(t *testing.T) {
			stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
			args := append([]string{name}, tc.args...)
			code := NewCLI(stdout, stderr).Run(args)
			if code != exitUsage {
				t.Fatalf("exit %d, want %d, stderr: %s",
					code, exitUsage, stderr)
			}
			// no partial output on a failed invocation
			if _, err := os.Stat(out); !os.IsNotExist(err) {
				t.Fatalf("output file exists after usage error")
			}
		})
	}
}

func TestCLIRun_missingTemplate(t *testing.T) {
	dir := t.TempDir()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := NewCLI(stdout, stderr).Run([]string{name,
		filepath.Join(dir, "no-such.tmpl"), filepath.Join(dir, "out.md")})
	if code != exitError {
		t.Fatalf("exit %d, want %d", code, exitError)
	}
	assert.Contains(t, stderr.String(), "reading template")
}

func TestCLIRun_renders(t *testing.T) {
	gs := test.NewGithubServer(t, map[string]test.APIResponse{
		"repos/octo/demo": {Body: `{
			"stargazers_count": 42,
			"forks_count": 5,
			"subscribers_count": 7,
			"language": "Go"
		}`},
	})

	dir := t.TempDir()
	tmpl := writeFile(t, dir, "README.tmpl",
		"# demo\n\n"+
			"Stars: {{github:repo,octo,demo,starsCount}}\n"+
			"Written in {{github:repo,octo,demo,language}}.\n")
	out := filepath.Join(dir, "README.md")
	config := writeFile(t, dir, "config.toml",
		fmt.Sprintf("[github]\naddress = %q\n", gs.URL))

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := NewCLI(stdout, stderr).Run(
		[]string{name, "-config", config, tmpl, out})
	if code != exitOK {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}

	rendered, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	expected := "# demo\n\nStars: 42\nWritten in Go.\n"
	assert.Equal(t, expected, string(rendered))

	// both properties share the one metadata call
	if hits := gs.Hits("repos/octo/demo"); hits != 1 {
		t.Fatalf("expected 1 hit, got %d", hits)
	}
}

func TestCLIRun_degradedStillRenders(t *testing.T) {
	gs := test.NewGithubServer(t, map[string]test.APIResponse{
		"repos/octo/demo": {Body: `{"stargazers_count": 42}`},
	})

	dir := t.TempDir()
	tmpl := writeFile(t, dir, "in.tmpl",
		"Stars: {{github:repo,octo,demo,starsCount}}\n"+
			"Chat: {{discord:server,octo}}\n")
	out := filepath.Join(dir, "out.md")
	config := writeFile(t, dir, "config.toml",
		fmt.Sprintf("[github]\naddress = %q\n", gs.URL))

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := NewCLI(stdout, stderr).Run(
		[]string{name, "-config", config, tmpl, out})
	if code != exitOK {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}

	rendered, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	expected := "Stars: 42\nChat: N/A: unknown service \"discord\"\n"
	assert.Equal(t, expected, string(rendered))

	// the degraded summary lands on stderr through the WARN filter
	assert.Contains(t, stderr.String(), "placeholders degraded")
}

func TestCLIRun_dry(t *testing.T) {
	gs := test.NewGithubServer(t, map[string]test.APIResponse{
		"repos/octo/demo": {Body: `{"stargazers_count": 42}`},
	})

	dir := t.TempDir()
	tmpl := writeFile(t, dir, "in.tmpl",
		"Stars: {{github:repo,octo,demo,starsCount}}\n")
	out := filepath.Join(dir, "out.md")
	config := writeFile(t, dir, "config.toml",
		fmt.Sprintf("[github]\naddress = %q\n", gs.URL))

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := NewCLI(stdout, stderr).Run(
		[]string{name, "-dry", "-config", config, tmpl, out})
	if code != exitOK {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}

	assert.Equal(t, "Stars: 42\n", stdout.String())
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("dry run wrote the output file")
	}
}

func TestCLIRun_envFileToken(t *testing.T) {
	const varName = "READMECAT_TEST_TOKEN"
	defer os.Unsetenv(varName)

	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			fmt.Fprint(w, `{"stargazers_count": 1}`)
		}))
	defer ts.Close()

	dir := t.TempDir()
	tmpl := writeFile(t, dir, "in.tmpl",
		"{{github:repo,octo,demo,starsCount}}")
	out := filepath.Join(dir, "out.md")
	config := writeFile(t, dir, "config.toml", fmt.Sprintf(
		"[github]\naddress = %q\ntoken_env = %q\n", ts.URL, varName))
	envFile := writeFile(t, dir, "creds.env", varName+"=ghp_fromenvfile\n")

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := NewCLI(stdout, stderr).Run([]string{name,
		"-config", config, "-env-file", envFile, tmpl, out})
	if code != exitOK {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}

	if exp := "Bearer ghp_fromenvfile"; gotAuth != exp {
		t.Fatalf("expected auth %q, got %q", exp, gotAuth)
	}
}

func TestCLIRun_missingEnvFile(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "in.tmpl", "static")
	out := filepath.Join(dir, "out.md")

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := NewCLI(stdout, stderr).Run([]string{name,
		"-env-file", filepath.Join(dir, "nope.env"), tmpl, out})
	if code != exitError {
		t.Fatalf("exit %d, want %d", code, exitError)
	}
	assert.Contains(t, stderr.String(), "nope.env")
}

func TestGithubInput(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		i := githubInput(DefaultConfig(), "tok")
		assert.Equal(t, "tok", i.Token)
		assert.False(t, i.Transport.SSLEnabled)
		assert.True(t, i.Transport.SSLVerify)
	})

	t.Run("tls_keys_enable_ssl", func(t *testing.T) {
		config := DefaultConfig()
		config.Github.CACert = "ca.pem"
		config.Github.TLSServerName = "github.internal"
		i := githubInput(config, "")
		assert.True(t, i.Transport.SSLEnabled)
		assert.Equal(t, "ca.pem", i.Transport.SSLCACert)
		assert.Equal(t, "github.internal", i.Transport.ServerName)
	})

	t.Run("skip_verify", func(t *testing.T) {
		config := DefaultConfig()
		config.Github.TLSSkipVerify = Bool(true)
		i := githubInput(config, "")
		assert.True(t, i.Transport.SSLEnabled)
		assert.False(t, i.Transport.SSLVerify)
	})
}

func TestUsageListsFlags(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	NewCLI(out, errOut).Run([]string{name, "-h"})
	for _, flag := range []string{
		"-config", "-dry", "-env-file", "-log-level", "-traffic", "-version",
	} {
		if !strings.Contains(errOut.String(), flag) {
			t.Fatalf("usage text missing %s", flag)
		}
	}
}
