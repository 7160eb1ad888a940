// Command msys2pack bundles an MSYS2-built executable and its
// transitive library dependencies into a standalone output directory.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/msys2pack/msys2pack/internal/flagset"
	"github.com/msys2pack/msys2pack/internal/msys2env"
	"github.com/msys2pack/msys2pack/internal/packager"
	"github.com/msys2pack/msys2pack/internal/progress"
	"github.com/msys2pack/msys2pack/internal/upx"
	"github.com/msys2pack/msys2pack/internal/winpath"
)

// fileOption is one parsed --file flag: "src=...|dest=...|flags=exe,lib,upx,add_deps".
// dest is required; src and flags are optional, and an omitted flags
// element gives the empty set. A flags element that is present must name
// at least one known flag.
type fileOption struct {
	src   *string
	dest  string
	flags flagset.Set
}

func parseFileOption(input string) (fileOption, error) {
	var src *string
	var dest string
	var haveDest, haveFlags bool
	flags := flagset.Empty()

	for _, part := range strings.Split(input, "|") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return fileOption{}, fmt.Errorf("missing key/value pair in %q", part)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "src":
			if src != nil {
				return fileOption{}, fmt.Errorf("two src elements detected")
			}
			v := value
			src = &v
		case "dest":
			if haveDest {
				return fileOption{}, fmt.Errorf("two dest elements detected")
			}
			dest = value
			haveDest = true
		case "flags":
			if haveFlags {
				return fileOption{}, fmt.Errorf("two flags elements detected")
			}
			haveFlags = true
			for _, name := range strings.Split(value, ",") {
				switch name {
				case "exe":
					flags = flags.With(flagset.EXE)
				case "lib":
					flags = flags.With(flagset.LIB)
				case "upx":
					flags = flags.With(flagset.UPX)
				case "add_deps":
					flags = flags.With(flagset.AddDeps)
				default:
					return fileOption{}, fmt.Errorf("unknown flag %q", name)
				}
			}
		default:
			return fileOption{}, fmt.Errorf("unknown key %q", key)
		}
	}

	if !haveDest {
		return fileOption{}, fmt.Errorf("missing dest")
	}

	return fileOption{src: src, dest: dest, flags: flags}, nil
}

// fileOptionList implements flag.Value, accumulating one fileOption
// per repeated --file flag.
type fileOptionList struct {
	items []fileOption
}

func (l *fileOptionList) String() string {
	if l == nil || len(l.items) == 0 {
		return ""
	}
	return fmt.Sprintf("%d files", len(l.items))
}

func (l *fileOptionList) Set(s string) error {
	opt, err := parseFileOption(s)
	if err != nil {
		return err
	}
	l.items = append(l.items, opt)
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("msys2pack", flag.ContinueOnError)

	var files fileOptionList
	fs.Var(&files, "file", "a file to add to the package, as 'src=...|dest=...|flags=exe,lib,upx,add_deps' (repeatable)")
	useUPX := fs.Bool("upx", false, "whether to upx the binary")
	out := fs.String("out", "", "the output directory")
	fs.StringVar(out, "o", "", "shorthand for --out")
	msys2Root := fs.String("msys2-root", "", "the MSYS2 installation root")
	msystemFlag := fs.String("msystem", "", "the MSYS2 environment to use (overrides the MSYSTEM env var)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *out == "" {
		return fmt.Errorf("missing required --out/-o flag")
	}
	if *msys2Root == "" {
		return fmt.Errorf("missing required --msys2-root flag")
	}

	msystem := *msystemFlag
	if msystem == "" {
		msystem = os.Getenv("MSYSTEM")
	}
	if msystem == "" {
		return fmt.Errorf("no MSYS2 environment given: pass --msystem or set the MSYSTEM env var")
	}

	env, err := parseEnvironment(msystem)
	if err != nil {
		return fmt.Errorf("invalid MSYS2 environment %q: %w", msystem, err)
	}

	reporter := progress.Color{Out: os.Stdout}

	p := packager.New(*msys2Root, env, *out).
		SetUPX(*useUPX).
		SetTranslator(winpath.Cygpath{}).
		SetCompressor(upx.UPX{}).
		SetReporter(reporter)

	for _, f := range files.items {
		p.Register(f.src, f.dest, f.flags)
	}

	if err := p.Package(); err != nil {
		return fmt.Errorf("failed to package: %w", err)
	}
	return nil
}

// parseEnvironment accepts any of the canonical MSYS2 environment
// names ("MINGW64", "UCRT64", "MSYS", ...), matching how MSYSTEM is
// conventionally set, case-insensitively.
func parseEnvironment(s string) (msys2env.Environment, error) {
	switch strings.ToUpper(s) {
	case "MSYS":
		return msys2env.Msys, nil
	case "MINGW64":
		return msys2env.Mingw64, nil
	case "UCRT64":
		return msys2env.Ucrt64, nil
	case "CLANG64":
		return msys2env.Clang64, nil
	case "MINGW32":
		return msys2env.Mingw32, nil
	case "CLANG32":
		return msys2env.Clang32, nil
	case "CLANGARM64":
		return msys2env.ClangArm64, nil
	default:
		return "", fmt.Errorf("%q is not a recognized MSYS2 environment", s)
	}
}
