package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gemmbench/internal/bench"
	"gemmbench/internal/compile"
	"gemmbench/internal/kernel"
	"gemmbench/internal/report"
	"gemmbench/internal/stats"
)

// Factories swapped out in tests.
var (
	openKernel = func(path string) (bench.Handle, error) {
		return kernel.Open(path)
	}
	newBuilder = func(path string, extraArgs []string, stdout, stderr io.Writer) bench.Builder {
		return &compile.Compiler{Path: path, ExtraArgs: extraArgs, Stdout: stdout, Stderr: stderr}
	}
	newArchive = report.OpenArchive
)

func newRunCmd() *cobra.Command {
	var (
		repeats          int
		warmup           int
		compileMode      string
		compilerPath     string
		compilerArgs     []string
		m, n, k          int
		alpha, beta      float64
		layoutFlag       string
		transA, transB   string
		saveAs           string
		saveHistoryAs    string
		skipVerification bool
		archive          bool
	)

	cmd := &cobra.Command{
		Use:   "run <kernel-source> [artifact]",
		Short: "Benchmark a DGEMM kernel source against the reference",
		Long: `Compiles the kernel source into a shared object (unless an up-to-date
artifact can be reused), loads call_dgemm, verifies the first repeat's output
against the trusted BLAS reference and times the remaining repeats. The
reduced statistics are printed and can be saved as a JSON report, as a raw
per-repeat history, or archived locally.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if repeats <= 0 {
				return fmt.Errorf("repeats should be a positive integer that is not 0")
			}

			compileFlag, err := parseCompileMode(compileMode)
			if err != nil {
				return err
			}
			layout, err := kernel.ParseLayout(layoutFlag)
			if err != nil {
				return err
			}
			ta, err := kernel.ParseTranspose(transA)
			if err != nil {
				return err
			}
			tb, err := kernel.ParseTranspose(transB)
			if err != nil {
				return err
			}

			outPath := ""
			if len(args) == 2 {
				outPath = args[1]
			}
			if compilerPath == "" {
				compilerPath = viper.GetString("compiler")
			}

			cfg := bench.Config{
				Name:             filepath.Base(args[0]),
				SourcePath:       args[0],
				OutPath:          outPath,
				ScratchPath:      viper.GetString("scratch_path"),
				Compile:          compileFlag,
				Repeats:          repeats,
				Warmup:           warmup,
				SkipVerification: skipVerification,
				Layout:           layout,
				TransA:           ta,
				TransB:           tb,
				Dims:             kernel.Dims{m, n, k},
				Alpha:            alpha,
				Beta:             beta,
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "M: %d, N: %d, K: %d\n", m, n, k)
			fmt.Fprintf(out, "alpha: %.4f, beta: %.4f\n", alpha, beta)
			fmt.Fprintf(out, "Layout: %s\n", layout)
			fmt.Fprintf(out, "TransA: %v\n", ta == kernel.Trans)
			fmt.Fprintf(out, "TransB: %v\n", tb == kernel.Trans)

			driver := &bench.Driver{
				Config:   cfg,
				Compiler: newBuilder(compilerPath, compilerArgs, out, cmd.ErrOrStderr()),
				Open:     openKernel,
				Out:      out,
			}

			res, err := driver.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprint(out, res.Report.Summary())

			if saveAs != "" {
				if err := report.Save(saveAs, res.Report); err != nil {
					return err
				}
			}
			if saveHistoryAs != "" {
				if err := writeHistory(saveHistoryAs, res.Samples); err != nil {
					return err
				}
			}
			if archive {
				if err := archiveReport(res.Report); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to archive report: %v\n", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&repeats, "repeats", "r", 10, "number of timed repeats")
	cmd.Flags().IntVar(&warmup, "warmup", 0, "untimed warm-up invocations before measuring")
	cmd.Flags().StringVar(&compileMode, "compile", "auto", "auto, true (always rebuild) or false (never rebuild)")
	cmd.Flags().StringVar(&compilerPath, "compiler", "", "compiler binary (default from config)")
	cmd.Flags().StringArrayVar(&compilerArgs, "compiler-arg", nil, "extra compiler argument, may be repeated")
	cmd.Flags().IntVarP(&m, "m", "m", 10000, "rows of op(A) and C")
	cmd.Flags().IntVarP(&n, "n", "n", 10000, "columns of op(B) and C")
	cmd.Flags().IntVarP(&k, "k", "k", 10000, "columns of op(A) and rows of op(B)")
	cmd.Flags().Float64Var(&alpha, "alpha", 1.0, "scalar alpha")
	cmd.Flags().Float64Var(&beta, "beta", 1.0, "scalar beta")
	cmd.Flags().StringVar(&layoutFlag, "layout", "ROW", "matrix layout, ROW or COL")
	cmd.Flags().StringVar(&transA, "trans-a", "none", "transpose A: none, trans or conj")
	cmd.Flags().StringVar(&transB, "trans-b", "none", "transpose B: none, trans or conj")
	cmd.Flags().StringVar(&saveAs, "save-as", "", "save the report as JSON to this path")
	cmd.Flags().StringVar(&saveHistoryAs, "save-history-as", "", "save per-repeat durations (ms, one per line) to this path")
	cmd.Flags().BoolVar(&skipVerification, "skip-verification", false, "skip dgemm result verification")
	cmd.Flags().BoolVar(&archive, "archive", false, "record the finished run in the local archive")

	return cmd
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}

// parseCompileMode maps the tri-state flag onto the build decision input:
// nil means auto.
func parseCompileMode(mode string) (*bool, error) {
	switch strings.ToLower(mode) {
	case "auto", "":
		return nil, nil
	case "true", "yes":
		v := true
		return &v, nil
	case "false", "no":
		v := false
		return &v, nil
	}
	return nil, fmt.Errorf("unexpected value for compile: %q (want auto, true or false)", mode)
}

func writeHistory(path string, samples []stats.Sample) error {
	lines := make([]string, len(samples))
	for i, s := range samples {
		lines[i] = fmt.Sprintf("%.6f", s.Millis())
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return fmt.Errorf("failed to save benchmark history: %w", err)
	}
	return nil
}

func archiveReport(r *report.Report) error {
	arch, err := newArchive(viper.GetString("archive_path"))
	if err != nil {
		return err
	}
	defer arch.Close()
	return arch.Insert(r)
}
