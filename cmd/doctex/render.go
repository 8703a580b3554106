// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doctex/internal/render"
	"github.com/pdiddy/doctex/pkg/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a document into a LaTeX fragment",
	Long: `Render reads the input document, then creates or overwrites the output
file with one \subsection per entry. Fields are emitted in fixed order: Name,
Signature, Description, Arguments, Examples, Type, Notes. Absent fields are
omitted.

Values are embedded verbatim by default, so LaTeX special characters in the
input reach the output unchanged. Use --escape to escape them.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runRender,
}

func init() {
	renderCmd.Flags().StringP("input", "i", render.DefaultInput, "source document (.json, .yaml, or .yml)")
	renderCmd.Flags().StringP("output", "o", render.DefaultOutput, "LaTeX output file, overwritten on every run")
	renderCmd.Flags().Bool("escape", false, "escape LaTeX special characters in headings and text")
	renderCmd.Flags().Bool("standalone", false, "wrap the fragment in a minimal article document")

	viper.BindPFlag("render.input", renderCmd.Flags().Lookup("input"))
	viper.BindPFlag("render.output", renderCmd.Flags().Lookup("output"))
	viper.BindPFlag("render.escape", renderCmd.Flags().Lookup("escape"))
	viper.BindPFlag("render.standalone", renderCmd.Flags().Lookup("standalone"))

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	_, err := render.RenderFile(renderConfig(), progress())
	return err
}

func renderConfig() types.RenderConfig {
	return types.RenderConfig{
		Input:      viper.GetString("render.input"),
		Output:     viper.GetString("render.output"),
		Escape:     viper.GetBool("render.escape"),
		Standalone: viper.GetBool("render.standalone"),
	}
}
