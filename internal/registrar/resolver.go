package registrar

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Resolver yields the absolute command path written into host files.
type Resolver interface {
	Resolve() (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func() (string, error)

// Resolve calls f.
func (f ResolverFunc) Resolve() (string, error) { return f() }

// Static returns a Resolver that always yields path.
func Static(path string) Resolver {
	return ResolverFunc(func() (string, error) { return path, nil })
}

// BinaryResolver locates the tool provider binary.
//
// Search order: Configured when set, then <Binary>-<GOOS>-<GOARCH> and
// <Binary> next to the running executable, then the running executable.
type BinaryResolver struct {
	Configured string
	Binary     string
	GOOS       string
	GOARCH     string
	Executable func() (string, error)
	Exists     func(string) bool
}

// NewBinaryResolver returns a resolver for the current platform.
func NewBinaryResolver(configured, binary string) *BinaryResolver {
	return &BinaryResolver{
		Configured: configured,
		Binary:     binary,
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
		Executable: os.Executable,
		Exists:     fileExists,
	}
}

func (r *BinaryResolver) Resolve() (string, error) {
	if r.Configured != "" {
		p, err := filepath.Abs(r.Configured)
		if err != nil {
			return "", fmt.Errorf("registrar: resolve %s: %w", r.Configured, err)
		}
		return p, nil
	}
	exe, err := r.Executable()
	if err != nil {
		return "", fmt.Errorf("registrar: executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	exe, err = filepath.Abs(exe)
	if err != nil {
		return "", fmt.Errorf("registrar: executable: %w", err)
	}
	if r.Binary != "" {
		dir := filepath.Dir(exe)
		for _, name := range r.candidates() {
			p := filepath.Join(dir, name)
			if r.Exists(p) {
				return p, nil
			}
		}
	}
	return exe, nil
}

func (r *BinaryResolver) candidates() []string {
	ext := ""
	if r.GOOS == "windows" {
		ext = ".exe"
	}
	return []string{
		fmt.Sprintf("%s-%s-%s%s", r.Binary, r.GOOS, r.GOARCH, ext),
		r.Binary + ext,
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
