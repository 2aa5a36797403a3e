package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/repr"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/dl/compiler"
	"github.com/slowlang/dl/compiler/diag"
	"github.com/slowlang/dl/compiler/format"
	"github.com/slowlang/dl/compiler/lex"
	"github.com/slowlang/dl/compiler/toolchain"
)

const usage = "USAGE: dl ./filename"

var (
	errUsage = errors.New("usage")

	stdout io.Writer = os.Stdout
)

func main() {
	err := cli.Run(newApp(), os.Args, os.Environ())

	os.Exit(report(stdout, os.Stderr, err))
}

func newApp() *cli.Command {
	buildCmd := &cli.Command{
		Name:        "build",
		Description: "compile, assemble and link an executable",
		Action:      buildAct,
		Args:        cli.Args{},
		Flags:       buildFlags(),
	}

	asmCmd := &cli.Command{
		Name:        "asm",
		Description: "write assembly only",
		Action:      asmAct,
		Args:        cli.Args{},
		Flags:       buildFlags(),
	}

	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "print syntax tree",
		Action:      parseAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("repr", false, "print as go values"),
		},
	}

	tokensCmd := &cli.Command{
		Name:        "tokens",
		Description: "print tokens",
		Action:      tokensAct,
		Args:        cli.Args{},
	}

	return &cli.Command{
		Name:        "dl",
		Description: "dl compiles a main :: i32 program into an executable",
		Before:      before,
		Action:      buildAct,
		Args:        cli.Args{},
		Flags: append(buildFlags(),
			cli.NewFlag("verbosity,v", "", "logger verbosity topics"),
			cli.HelpFlag,
		),
		Commands: []*cli.Command{
			buildCmd,
			asmCmd,
			parseCmd,
			tokensCmd,
		},
	}
}

func buildFlags() []*cli.Flag {
	return []*cli.Flag{
		cli.NewFlag("emit", "asm", "backend: asm or llvm"),
		cli.NewFlag("output,o", "", "artifacts base name"),
		cli.NewFlag("config", "", "toolchain config (yaml)"),
	}
}

func before(c *cli.Command) error {
	tlog.SetVerbosity(c.String("verbosity"))

	return nil
}

// report prints err the way it's expected by users and returns exit code.
func report(stdout, stderr io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
	default:
		if d, ok := diag.As(err); ok {
			fmt.Fprintln(stdout, d.Error())
			break
		}

		fmt.Fprintf(stderr, "error: %v\n", err)
	}

	return 1
}

func buildAct(c *cli.Command) error { return build(c, true) }

func asmAct(c *cli.Command) error { return build(c, false) }

func source(c *cli.Command) (string, error) {
	if len(c.Args) == 0 {
		fmt.Fprintln(stdout, usage)
		return "", errUsage
	}

	return c.Args[0], nil
}

func build(c *cli.Command, link bool) (err error) {
	src, err := source(c)
	if err != nil {
		return err
	}

	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	conf := toolchain.Default()

	if name := c.String("config"); name != "" {
		conf, err = toolchain.Load(name)
		if err != nil {
			return err
		}
	}

	if out := c.String("output"); out != "" {
		conf.Output = out
	}

	be, ext := compiler.Asm, ".asm"

	switch emit := c.String("emit"); emit {
	case "asm":
	case "llvm":
		be, ext = compiler.LLVM, ".ll"
	default:
		return errors.New("unsupported backend: %v", emit)
	}

	obj, err := compiler.CompileFile(ctx, src, be)
	if err != nil {
		return errors.Wrap(err, "compile %v", src)
	}

	text := conf.Artifact(ext)

	err = os.WriteFile(text, obj, 0o644)
	if err != nil {
		return errors.Wrap(err, "write %v", text)
	}

	tlog.Printw("written", "file", text, "size", len(obj))

	if !link {
		return nil
	}

	var exe string

	if ext == ".ll" {
		exe, err = conf.BuildLLVM(ctx, text)
		if err != nil {
			return errors.Wrap(err, "build")
		}
	} else {
		var o string

		o, err = conf.Assemble(ctx, text)
		if err != nil {
			return errors.Wrap(err, "assemble")
		}

		exe, err = conf.Link(ctx, o)
		if err != nil {
			return errors.Wrap(err, "link")
		}
	}

	tlog.Printw("built", "exe", exe)

	return nil
}

func tokensAct(c *cli.Command) error {
	src, err := source(c)
	if err != nil {
		return err
	}

	text, err := os.ReadFile(src)
	if err != nil {
		return errors.Wrap(err, "read file")
	}

	for _, t := range lex.Tokenize(text) {
		fmt.Fprintf(stdout, "%d: %v %q\n", t.Line, t.Kind, t.Value)
	}

	return nil
}

func parseAct(c *cli.Command) error {
	src, err := source(c)
	if err != nil {
		return err
	}

	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	text, err := os.ReadFile(src)
	if err != nil {
		return errors.Wrap(err, "read file")
	}

	fn, err := compiler.Parse(ctx, src, text)
	if err != nil {
		return err
	}

	var b []byte

	if c.Bool("repr") {
		b = append([]byte(repr.String(fn)), '\n')
	} else {
		b, err = format.Format(ctx, nil, fn)
		if err != nil {
			return errors.Wrap(err, "format")
		}
	}

	_, err = stdout.Write(b)

	return err
}
