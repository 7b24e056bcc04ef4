package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exit = os.Exit
var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gemmbench",
	Short: "Benchmark externally supplied DGEMM kernels",
	Long: `gemmbench compiles a DGEMM kernel source into a shared object, loads its
call_dgemm entry point, validates the output against a trusted BLAS reference
and times repeated invocations. Finished runs reduce to a statistics report
that can be saved, archived and merged across independent runs.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./gemmbench.yaml)")
}

func defaultCompiler() string {
	if runtime.GOARCH == "arm64" || runtime.GOARCH == "arm" {
		return "armclang"
	}
	return "clang"
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// explicit .env loading, ignore if missing
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("gemmbench")
	}

	viper.SetEnvPrefix("GEMMBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("compiler", defaultCompiler())
	viper.SetDefault("scratch_path", ".gemmbench/kernel.so")
	viper.SetDefault("archive_path", ".gemmbench/history.db")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
