package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdfsift/internal/convert"
	"github.com/pdiddy/pdfsift/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file-or-directory>",
	Short: "Convert PDFs to text, CSV tables, and PNG image crops",
	Long: `Convert extracts plain text from a PDF file, or from every PDF directly
under a directory. With --convert-tables detected tables are saved as CSV;
with --convert-images placed images are cropped to PNG. Artifacts are named
after captions found near them, and numbered when no caption is found.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := convertConfigFromFlags(cmd)

	pipeline := convert.NewPipeline(cfg.ConvertOptions, os.Stdout)
	result, err := convert.Convert(pipeline, args[0], cfg.OutputDir, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d conversion(s) failed", result.Failed)
	}
	return nil
}

// convertConfigFromFlags assembles the conversion config. Output
// directory and DPI may also come from the config file or environment;
// explicit flags win.
func convertConfigFromFlags(cmd *cobra.Command) types.ConvertConfig {
	images, _ := cmd.Flags().GetBool("convert-images")
	tables, _ := cmd.Flags().GetBool("convert-tables")
	ocr, _ := cmd.Flags().GetBool("ocr")
	manifest, _ := cmd.Flags().GetBool("manifest")

	return types.ConvertConfig{
		ConvertOptions: types.ConvertOptions{
			Images:   images,
			Tables:   tables,
			DPI:      viper.GetInt("dpi"),
			OCR:      ocr,
			Manifest: manifest,
		},
		OutputDir: viper.GetString("output"),
	}
}

func init() {
	convertCmd.Flags().StringP("output", "o", "converted_files", "output directory root")
	convertCmd.Flags().Bool("convert-images", false, "save placed images as PNG crops")
	convertCmd.Flags().Bool("convert-tables", false, "save detected tables as CSV")
	convertCmd.Flags().Int("dpi", convert.DefaultDPI, "rasterization resolution for image crops")
	convertCmd.Flags().Bool("ocr", false, "recognize text on pages with none extractable (OCR-enabled builds only)")
	convertCmd.Flags().Bool("manifest", false, "write a YAML manifest per converted document")

	viper.BindPFlag("output", convertCmd.Flags().Lookup("output"))
	viper.BindPFlag("dpi", convertCmd.Flags().Lookup("dpi"))

	rootCmd.AddCommand(convertCmd)
}
