package compile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// CompilationError reports a compiler run that exited non-zero.
type CompilationError struct {
	ExitCode int
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("compilation failed with exit code %d", e.ExitCode)
}

// Compiler invokes the external C compiler to build a kernel source into a
// shared object.
type Compiler struct {
	// Path is the compiler binary, e.g. "cc", "clang" or "armclang".
	Path string
	// ExtraArgs are appended after the standard flag set, for vendor
	// specifics such as -armpl or -lmkl_rt.
	ExtraArgs []string
	// Stdout and Stderr receive the compiler's output; nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// Compile builds source into a shared object at out. A non-zero compiler
// exit becomes a *CompilationError; failing to start the compiler at all is
// reported as a plain wrapped error.
func (c *Compiler) Compile(ctx context.Context, source, out string) error {
	args := []string{
		"-O3",
		"-fopenmp",
		"-march=native",
		"-lm",
		"-Wall", "-Werror",
		"-shared",
		"-o", out,
	}
	args = append(args, c.ExtraArgs...)
	args = append(args, source)

	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &CompilationError{ExitCode: exitErr.ExitCode()}
		}
		return fmt.Errorf("failed to run compiler %s: %w", c.Path, err)
	}
	return nil
}
