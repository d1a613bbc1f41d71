package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfsift/internal/pdf"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.pdf>",
	Short: "Print document metadata without converting",
	Long: `Inspect opens a PDF and prints its version, page count, page
dimensions, and the title and author when the document records them.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	doc, err := pdf.Open(args[0])
	if err != nil {
		return err
	}
	defer doc.Close()

	info, err := doc.Info()
	if err != nil {
		return err
	}

	fmt.Printf("File:    %s\n", doc.Path())
	fmt.Printf("Version: PDF-%s\n", info.Version)
	fmt.Printf("Pages:   %d\n", info.Pages)
	if info.Title != "" {
		fmt.Printf("Title:   %s\n", info.Title)
	}
	if info.Author != "" {
		fmt.Printf("Author:  %s\n", info.Author)
	}

	fmt.Println()
	fmt.Println("Page dimensions:")
	for i := 0; i < doc.PageCount(); i++ {
		w, h, err := doc.PageSize(i)
		if err != nil {
			return err
		}
		images, err := doc.EmbeddedImageCount(i)
		if err != nil {
			return err
		}
		fmt.Printf("  Page %d: %.0f x %.0f pt", i+1, w, h)
		if images > 0 {
			fmt.Printf(" (%d images)", images)
		}
		fmt.Println()
	}
	return nil
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
