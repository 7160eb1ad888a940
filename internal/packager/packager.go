// Package packager implements the core packaging algorithm: staging a
// set of files, resolving bare names and their transitive library
// dependencies against an MSYS2 sysroot, and materializing the result
// into an output tree.
package packager

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/msys2pack/msys2pack/internal/dllclass"
	"github.com/msys2pack/msys2pack/internal/flagset"
	"github.com/msys2pack/msys2pack/internal/msys2env"
	"github.com/msys2pack/msys2pack/internal/progress"
	"github.com/msys2pack/msys2pack/internal/sysroot"
)

// Sentinel errors identifying the error kinds named in spec.md's error
// handling design; every returned error except a Compressor failure
// wraps one of these so callers can match with errors.Is. A Compressor
// failure wraps the Compressor's own error instead.
var (
	// ErrInvalidRegistration is returned when a registered entry lacks
	// a src and its dest is not a single normal path component, or its
	// flags lack both LIB and EXE.
	ErrInvalidRegistration = errors.New("invalid registration")
	// ErrLookupFailed is returned when a bare name cannot be found in
	// the sysroot.
	ErrLookupFailed = errors.New("lookup failed")
	// ErrPolicyViolation is returned when a resolved source path is
	// under a system directory, or a dest is absolute.
	ErrPolicyViolation = errors.New("policy violation")
	// ErrIoFailed wraps filesystem failures (mkdir, copy, stat).
	ErrIoFailed = errors.New("i/o failed")
)

// PEReader reports the names of the DLLs a PE image imports, the
// interface boundary internal/peimport.Names satisfies, kept abstract
// here so the packager's own tests can stub it without real PE files.
type PEReader interface {
	Names(path string) ([]string, error)
}

// peReaderFunc adapts a plain function to PEReader.
type peReaderFunc func(path string) ([]string, error)

func (f peReaderFunc) Names(path string) ([]string, error) { return f(path) }

// Translator converts a POSIX sysroot path to its native Windows
// equivalent before a copy; see internal/winpath.
type Translator interface {
	Translate(posixPath string) (string, error)
}

// Compressor compresses a materialized file in place; see
// internal/upx.
type Compressor interface {
	Compress(path string) error
}

// stagedFile is one entry in the Packager's staging list.
type stagedFile struct {
	// src is the resolved source path. Nil until Phase 2 resolves it,
	// for entries registered without one.
	src *string
	// dest is the destination path, relative to the output root.
	dest  string
	flags flagset.Set
}

// Packager stages files from an MSYS2 installation and materializes
// them, along with their transitive library dependencies, into an
// output tree.
type Packager struct {
	installRoot string
	env         msys2env.Environment
	outDir      string

	files []stagedFile

	resolveUnknown bool
	upx            bool

	resolver   *sysroot.Resolver
	peReader   PEReader
	translator Translator
	compressor Compressor
	reporter   progress.Reporter
}

// New constructs a Packager rooted at an MSYS2 installation and
// environment, writing its output to outDir.
func New(installRoot string, env msys2env.Environment, outDir string) *Packager {
	return &Packager{
		installRoot:    installRoot,
		env:            env,
		outDir:         outDir,
		files:          make([]stagedFile, 0, 256),
		resolveUnknown: true,
		resolver:       sysroot.New(installRoot, env),
		reporter:       progress.Noop{},
	}
}

// SetPEReader overrides the PE import reader used during Phase 3. If
// never called, Package uses internal/peimport.Names.
func (p *Packager) SetPEReader(r PEReader) *Packager {
	p.peReader = r
	return p
}

// SetTranslator sets the Path Translator used during Phase 4. If none
// is set, sources are read from their paths as given.
func (p *Packager) SetTranslator(t Translator) *Packager {
	p.translator = t
	return p
}

// SetCompressor sets the Compressor used during Phase 4. If none is
// set, no file is compressed, even with SetUPX(true).
func (p *Packager) SetCompressor(c Compressor) *Packager {
	p.compressor = c
	return p
}

// SetReporter overrides the progress Reporter. Defaults to
// progress.Noop.
func (p *Packager) SetReporter(r progress.Reporter) *Packager {
	p.reporter = r
	return p
}

// Register stages a file for packaging. If src is nil, dest must be a
// single normal path component and flags must include LIB or EXE; the
// source is located later, in Phase 2.
func (p *Packager) Register(src *string, dest string, flags flagset.Set) *Packager {
	p.files = append(p.files, stagedFile{src: src, dest: dest, flags: flags})
	return p
}

// SetResolveUnknown toggles Phase 3, the transitive closure over
// library dependencies. Defaults to true.
func (p *Packager) SetResolveUnknown(v bool) *Packager {
	p.resolveUnknown = v
	return p
}

// SetUPX toggles whether materialized files with the UPX flag are
// compressed in Phase 4. Defaults to false.
func (p *Packager) SetUPX(v bool) *Packager {
	p.upx = v
	return p
}

// Package runs the four-phase packaging algorithm: create the output
// root, resolve bare names against the sysroot, optionally compute the
// transitive closure of library dependencies, and materialize every
// staged file into the output tree.
func (p *Packager) Package() error {
	if err := p.createRoot(); err != nil {
		return err
	}
	if err := p.resolveBareNames(); err != nil {
		return err
	}
	if p.resolveUnknown {
		if err := p.resolveClosure(); err != nil {
			return err
		}
	}
	return p.materialize()
}

// createRoot is Phase 1.
func (p *Packager) createRoot() error {
	if err := os.MkdirAll(p.outDir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create output directory %q: %v", ErrIoFailed, p.outDir, err)
	}
	return nil
}

// resolveBareNames is Phase 2: every entry registered without a src
// must name a single normal dest component, which is looked up in the
// sysroot.
func (p *Packager) resolveBareNames() error {
	for i := range p.files {
		file := &p.files[i]
		if file.src != nil {
			continue
		}

		name, err := singleComponent(file.dest)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRegistration, err)
		}
		if !file.flags.Has(flagset.LIB) && !file.flags.Has(flagset.EXE) {
			return fmt.Errorf("%w: %q has no src and no LIB or EXE flag", ErrInvalidRegistration, file.dest)
		}

		src, err := p.resolver.Lookup(name)
		if err != nil {
			return fmt.Errorf("%w: failed to locate %q: %v", ErrLookupFailed, name, err)
		}

		p.reporter.Status("Resolved %q to %q", file.dest, src)
		file.src = &src
	}
	return nil
}

// singleComponent extracts the lookup name from a dest that must be
// exactly one normal (non-root, non-parent) path component.
func singleComponent(dest string) (string, error) {
	clean := filepath.Clean(dest)
	if clean == "." || clean == ".." || filepath.IsAbs(clean) || strings.ContainsAny(clean, `/\`) {
		return "", fmt.Errorf("%q is not exactly one normal path component", dest)
	}
	return clean, nil
}

// resolveClosure is Phase 3: the transitive closure over LIB/EXE
// imports, with the index-based scan cursor spec.md's algorithm
// describes. The cursor advance is len(files)-1, not len(files): the
// last pre-existing entry is deliberately re-scanned on the next pass
// alongside any newly appended entries. This is preserved verbatim
// from the original packager; it is reachable only when the staging
// list grew during a pass.
func (p *Packager) resolveClosure() error {
	reader := p.peReaderOrDefault()

	known := make(map[string]struct{})
	unknown := make(map[string]struct{})
	cursor := 0

	for {
		for i := cursor; i < len(p.files); i++ {
			file := p.files[i]
			if !file.flags.Has(flagset.LIB) && !file.flags.Has(flagset.EXE) {
				continue
			}
			if file.src == nil {
				return fmt.Errorf("%w: %q should be resolved by this point but is not", ErrInvalidRegistration, file.dest)
			}

			fileName := filepath.Base(*file.src)
			known[fileName] = struct{}{}
			delete(unknown, fileName)

			imports, err := reader.Names(*file.src)
			if err != nil {
				return fmt.Errorf("%w: failed to get imports of %q: %v", ErrIoFailed, *file.src, err)
			}

			for _, name := range imports {
				if dllclass.IsSystem(name) {
					continue
				}
				if _, ok := known[name]; ok {
					continue
				}
				if dllclass.IsAPISet(name) {
					p.reporter.Status("%q is part of an api set, skipping...", name)
					known[name] = struct{}{}
					continue
				}
				unknown[name] = struct{}{}
			}
		}

		cursor = max(0, len(p.files)-1)

		hasUnknown := len(unknown) > 0

		for library := range unknown {
			src, err := p.resolver.Lookup(library)
			if err != nil {
				return fmt.Errorf("%w: failed to locate %q: %v", ErrLookupFailed, library, err)
			}
			p.reporter.Status("Adding new library %q from %q...", library, src)
			p.Register(&src, library, flagset.UPX.With(flagset.LIB).With(flagset.AddDeps))
			delete(unknown, library)
		}

		if !hasUnknown {
			break
		}
	}

	return nil
}

// materialize is Phase 4.
func (p *Packager) materialize() error {
	materializedThisRun := make(map[string]struct{})

	for _, file := range p.files {
		if filepath.IsAbs(file.dest) {
			return fmt.Errorf("%w: %q is an absolute path", ErrPolicyViolation, file.dest)
		}

		if file.src == nil {
			return fmt.Errorf("%w: %q should be resolved by this point but is not", ErrInvalidRegistration, file.dest)
		}

		if isUnderSystemDirectory(*file.src) {
			return fmt.Errorf("%w: %q is being added from a system directory", ErrPolicyViolation, *file.src)
		}

		dest := filepath.Join(p.outDir, file.dest)

		exists, err := fileExists(dest)
		if err != nil {
			return fmt.Errorf("%w: failed to check if %q exists: %v", ErrIoFailed, dest, err)
		}
		if exists {
			if _, collided := materializedThisRun[dest]; collided {
				p.reporter.Warnf("two registered entries share dest %q; keeping the first", file.dest)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("%w: failed to create parent directory of %q: %v", ErrIoFailed, dest, err)
		}

		if err := p.copyFile(*file.src, dest); err != nil {
			return fmt.Errorf("%w: failed to copy %q to %q: %v", ErrIoFailed, *file.src, dest, err)
		}
		materializedThisRun[dest] = struct{}{}

		if p.upx && file.flags.Has(flagset.UPX) && (file.flags.Has(flagset.LIB) || file.flags.Has(flagset.EXE)) {
			if p.compressor != nil {
				if err := p.compressor.Compress(dest); err != nil {
					return fmt.Errorf("failed to upx %q: %w", dest, err)
				}
			}
		}
	}
	return nil
}

// copyFile translates src (if a Translator is configured) and copies
// its bytes to dest.
func (p *Packager) copyFile(src, dest string) error {
	readPath := src
	if p.translator != nil {
		translated, err := p.translator.Translate(src)
		if err != nil {
			return fmt.Errorf("failed to translate path: %w", err)
		}
		readPath = translated
	}

	data, err := os.ReadFile(readPath)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

func (p *Packager) peReaderOrDefault() PEReader {
	if p.peReader != nil {
		return p.peReader
	}
	return peReaderFunc(defaultPEReaderNames)
}

// isUnderSystemDirectory reports whether a lower-cased src begins with
// a recognized Windows system directory prefix. This is a
// defense-in-depth check against misconfigured resolvers; it is not a
// general Windows path parser.
func isUnderSystemDirectory(src string) bool {
	lower := strings.ToLower(filepath.ToSlash(src))
	return strings.HasPrefix(lower, "c:/windows")
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
