// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doctex/internal/container"
	"github.com/pdiddy/doctex/internal/typeset"
	"github.com/pdiddy/doctex/pkg/types"
)

var typesetCmd = &cobra.Command{
	Use:   "typeset",
	Short: "Compile the rendered document into PDF",
	Long: `Typeset renders the input document as a standalone LaTeX file and runs a
LaTeX engine inside a container (docker or podman) to produce a PDF. No local
TeX installation is needed.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runTypeset,
}

func init() {
	typesetCmd.Flags().StringP("input", "i", "", "source document (default: render.input)")
	typesetCmd.Flags().StringP("output", "o", "doc.pdf", "PDF output file")
	typesetCmd.Flags().String("image", typeset.DefaultImage, "container image providing the LaTeX engine")
	typesetCmd.Flags().String("engine", typeset.DefaultEngine, "LaTeX engine: pdflatex, xelatex, or lualatex")
	typesetCmd.Flags().Bool("pull", false, "pull the image when it is not present locally")

	viper.BindPFlag("typeset.image", typesetCmd.Flags().Lookup("image"))
	viper.BindPFlag("typeset.engine", typesetCmd.Flags().Lookup("engine"))

	rootCmd.AddCommand(typesetCmd)
}

func runTypeset(cmd *cobra.Command, args []string) error {
	rt, err := container.DetectRuntime()
	if err != nil {
		return err
	}

	pull, _ := cmd.Flags().GetBool("pull")
	cfg := types.TypesetConfig{
		Image:  viper.GetString("typeset.image"),
		Engine: viper.GetString("typeset.engine"),
	}
	fmt.Fprintf(progress(), "using %s with %s (%s)\n", rt.Name(), cfg.Image, cfg.Engine)

	ts, err := typeset.NewContainerTypesetter(rt, cfg, pull)
	if err != nil {
		return err
	}

	renderCfg := renderConfig()
	if in, _ := cmd.Flags().GetString("input"); in != "" {
		renderCfg.Input = in
	}
	out, _ := cmd.Flags().GetString("output")

	if err := typeset.TypesetFile(ts, renderCfg, out, progress()); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", out)
	return nil
}
