package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var colorImage string

var colorCmd = &cobra.Command{
	Use:   "color",
	Short: "Print the dominant colour of a photo",
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := readImage(colorImage)
		if err != nil {
			return err
		}
		rgb, err := newClient().AnalyzeColor(cmd.Context(), img)
		if err != nil {
			return describe(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), rgb.CSS())
		return nil
	},
}

func init() {
	colorCmd.Flags().StringVar(&colorImage, "image", "", "path to the photo (required)")
	_ = colorCmd.MarkFlagRequired("image")
	rootCmd.AddCommand(colorCmd)
}
