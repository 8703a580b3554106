// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doctex CLI.
//
// Run without arguments, doctex renders lisp-doc.json into doc.tex in the
// current directory and prints nothing on success.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doctex/internal/catalog"
	"github.com/pdiddy/doctex/internal/render"
	"github.com/pdiddy/doctex/internal/typeset"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the doctex CLI. Without a subcommand it
// performs the conventional render.
var rootCmd = &cobra.Command{
	Use:   "doctex",
	Short: "Render documented entries from JSON into a LaTeX fragment",
	Long: `doctex reads a JSON (or YAML) document mapping entry names to records with
optional Name, Signature, Description, Arguments, Examples, Type, and Notes
fields, and writes a LaTeX fragment with one \subsection per entry.

With no arguments it reads lisp-doc.json and writes doc.tex in the current
directory. Subcommands index entries in a local catalog and typeset the
output into PDF.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
}

func init() {
	rootCmd.RunE = runRender
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./doctex.yaml or ~/.config/doctex/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print progress to stderr")

	viper.SetDefault("render.input", render.DefaultInput)
	viper.SetDefault("render.output", render.DefaultOutput)
	viper.SetDefault("render.escape", false)
	viper.SetDefault("render.standalone", false)
	viper.SetDefault("catalog.db", catalog.DefaultDBPath)
	viper.SetDefault("catalog.max_results", 20)
	viper.SetDefault("typeset.image", typeset.DefaultImage)
	viper.SetDefault("typeset.engine", typeset.DefaultEngine)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doctex")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doctex"))
		}
	}

	viper.SetEnvPrefix("DOCTEX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(progress(), "Using config file:", viper.ConfigFileUsed())
	}
}

// progress returns the writer for progress lines: stderr with --verbose,
// otherwise a discard writer so the default run stays silent.
func progress() io.Writer {
	if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
		return os.Stderr
	}
	return io.Discard
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
