package toolchain

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type (
	// Config describes external tools.
	// Arguments may contain {in} and {out} placeholders.
	Config struct {
		Output    string   `yaml:"output"`
		Assembler []string `yaml:"assembler"`
		Linker    []string `yaml:"linker"`
		LLVM      []string `yaml:"llvm"`
	}
)

func Default() Config {
	return Config{
		Output:    "output",
		Assembler: []string{"nasm", "-felf64", "{in}", "-o", "{out}"},
		Linker:    []string{"cc", "-no-pie", "{in}", "-o", "{out}"},
		LLVM:      []string{"clang", "{in}", "-o", "{out}"},
	}
}

// Load reads a YAML config. Missing fields keep their defaults.
func Load(name string) (c Config, err error) {
	c = Default()

	data, err := os.ReadFile(name)
	if err != nil {
		return c, errors.Wrap(err, "read config")
	}

	err = yaml.Unmarshal(data, &c)
	if err != nil {
		return c, errors.Wrap(err, "decode config %v", name)
	}

	return c, nil
}

func (c Config) Artifact(ext string) string { return c.Output + ext }

// Assemble turns assembly text file into an object file.
func (c Config) Assemble(ctx context.Context, asm string) (obj string, err error) {
	obj = c.Artifact(".o")

	return obj, Run(ctx, Expand(c.Assembler, asm, obj))
}

// Link produces an executable from an object file.
func (c Config) Link(ctx context.Context, obj string) (exe string, err error) {
	exe = c.Artifact("")

	return exe, Run(ctx, Expand(c.Linker, obj, exe))
}

// BuildLLVM produces an executable from LLVM IR text file.
func (c Config) BuildLLVM(ctx context.Context, ll string) (exe string, err error) {
	exe = c.Artifact("")

	return exe, Run(ctx, Expand(c.LLVM, ll, exe))
}

func Expand(argv []string, in, out string) []string {
	r := strings.NewReplacer("{in}", in, "{out}", out)

	res := make([]string, len(argv))
	for i, a := range argv {
		res[i] = r.Replace(a)
	}

	return res
}

// Run executes argv to completion forwarding its output.
func Run(ctx context.Context, argv []string) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "run tool", "argv", argv)
	defer tr.Finish("err", &err)

	if len(argv) == 0 {
		return errors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err = cmd.Run()
	if err != nil {
		return errors.Wrap(err, "%v", argv[0])
	}

	return nil
}
