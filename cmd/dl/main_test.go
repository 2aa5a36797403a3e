package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"

	"github.com/slowlang/dl/compiler/diag"
)

func TestReport(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 0, report(&stdout, &stderr, nil))
	assert.Empty(t, stdout.String())

	assert.Equal(t, 1, report(&stdout, &stderr, errUsage))
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())

	err := errors.Wrap(diag.New(diag.MissingEntryPoint, "a.dl", 0, "could not find entry point main"), "compile a.dl")

	assert.Equal(t, 1, report(&stdout, &stderr, err))
	assert.Equal(t, "a.dl:0: ERROR: could not find entry point main\n", stdout.String())
	assert.Empty(t, stderr.String())

	stdout.Reset()

	assert.Equal(t, 1, report(&stdout, &stderr, errors.New("boom")))
	assert.Empty(t, stdout.String())
	assert.Equal(t, "error: boom\n", stderr.String())
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer

	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })

	err := cli.Run(newApp(), append([]string{"dl"}, args...), nil)

	return buf.String(), err
}

func writeSource(t *testing.T, dir, text string) string {
	t.Helper()

	name := filepath.Join(dir, "a.dl")
	require.NoError(t, os.WriteFile(name, []byte(text), 0o644))

	return name
}

func TestMissingArgument(t *testing.T) {
	for _, args := range [][]string{nil, {"build"}, {"asm"}, {"parse"}, {"tokens"}} {
		out, err := run(t, args...)

		assert.ErrorIs(t, err, errUsage, "%q", args)
		assert.Equal(t, usage+"\n", out, "%q", args)
		assert.Equal(t, 1, report(io.Discard, io.Discard, err))
	}
}

func TestNoArtifactOnFailure(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "x:i32=1;\nreturn x;\n")
	out := filepath.Join(dir, "output")

	for _, args := range [][]string{
		{"--output=" + out, src},
		{"build", "--output=" + out, src},
		{"asm", "--output=" + out, src},
		{"asm", "--emit=llvm", "--output=" + out, src},
	} {
		_, err := run(t, args...)
		assert.True(t, diag.Is(err, diag.MissingEntryPoint), "%q: %v", args, err)

		var b bytes.Buffer
		assert.Equal(t, 1, report(&b, io.Discard, err))
		assert.Equal(t, src+":0: ERROR: could not find entry point main\n", b.String())
	}

	assert.NoFileExists(t, out+".asm")
	assert.NoFileExists(t, out+".ll")
	assert.NoFileExists(t, out+".o")
	assert.NoFileExists(t, out)
}

func TestNoArtifactOnFailureDefaultName(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "main::i32{x:i32=5;return x;}")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, err = run(t, src)
	assert.True(t, diag.Is(err, diag.UnsupportedReturnExpression), "%v", err)

	assert.NoFileExists(t, filepath.Join(dir, "output.asm"))
}

func TestAsmCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "main::i32{return 42;}")
	out := filepath.Join(dir, "prog")

	_, err := run(t, "asm", "--output="+out, src)
	require.NoError(t, err)

	text, err := os.ReadFile(out + ".asm")
	require.NoError(t, err)
	assert.Contains(t, string(text), "\tmov eax, 42\n")
	assert.NoFileExists(t, out+".o")

	_, err = run(t, "asm", "--emit=llvm", "--output="+out, src)
	require.NoError(t, err)

	text, err = os.ReadFile(out + ".ll")
	require.NoError(t, err)
	assert.Contains(t, string(text), "ret i32 42")

	_, err = run(t, "asm", "--emit=wasm", "--output="+out, src)
	assert.Error(t, err)
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "main::i32{return 42;}")
	out := filepath.Join(dir, "prog")

	conf := filepath.Join(dir, "dl.yaml")
	require.NoError(t, os.WriteFile(conf, []byte(`assembler: [cp, "{in}", "{out}"]
linker: [cp, "{in}", "{out}"]
`), 0o644))

	for _, args := range [][]string{
		{"build", "--config=" + conf, "--output=" + out, src},
		{"--config=" + conf, "--output=" + out, src},
	} {
		require.NoError(t, os.RemoveAll(out))

		_, err := run(t, args...)
		require.NoError(t, err, "%q", args)

		assert.FileExists(t, out+".asm")
		assert.FileExists(t, out+".o")

		exe, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(exe), "global main")
	}
}

func TestParseCommand(t *testing.T) {
	src := writeSource(t, t.TempDir(), "main::i32{\nx:i8=1;\nreturn 2;\n}")

	out, err := run(t, "parse", src)
	require.NoError(t, err)
	assert.Equal(t, `Function: main
  VarDecl: x: i8
    Int: 1: i8
  Return:
    Int: 2: i32
`, out)

	out, err = run(t, "parse", "--repr", src)
	require.NoError(t, err)
	assert.Contains(t, out, "ast.Func")
}

func TestTokensCommand(t *testing.T) {
	src := writeSource(t, t.TempDir(), "main::i32{\nreturn 2;}")

	out, err := run(t, "tokens", src)
	require.NoError(t, err)
	assert.Equal(t, `1: keyword "main"
1: symbol ":"
1: symbol ":"
1: type "i32"
1: symbol "{"
2: keyword "return"
2: number "2"
2: symbol ";"
2: symbol "}"
`, out)
}
