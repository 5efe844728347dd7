package main

import (
	"context"
	"fmt"
	"os"

	"github.com/robby/pulsedump/internal/assets"
	"github.com/robby/pulsedump/internal/auth"
	"github.com/robby/pulsedump/internal/export"
	"github.com/robby/pulsedump/internal/monday"
	"github.com/robby/pulsedump/internal/pdf"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// CLI flags
	pdfFlag    bool
	outputFlag string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pulsedump <item-id-or-url>",
		Short: "Export a Monday.com item to a readable Markdown document",
		Long: `pulsedump exports a single Monday.com item to a self-contained folder:
a README.md with the item's metadata, fields, comments, and replies, plus an
images/ directory holding every attachment and embedded image.

Accepts either a raw item ID or an item URL containing a pulses/<id> segment:

  pulsedump https://example.monday.com/boards/123/pulses/456
  pulsedump 456
  pulsedump 456 --pdf

Authentication:
  1. Set the MONDAY_API_TOKEN environment variable, or
  2. Create a .env file containing MONDAY_API_TOKEN=<your token>`,
		Args:          cobra.ExactArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().BoolVar(&pdfFlag, "pdf", false, "Also render the export to PDF (requires pandoc or wkhtmltopdf)")
	rootCmd.Flags().StringVar(&outputFlag, "output", ".", "Parent directory for the export folder")

	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	itemID := monday.ParseItemRef(args[0])
	log.Infof("item ID: %s", itemID)

	token, err := auth.GetToken()
	if err != nil {
		return err
	}

	client := monday.New(token)
	ctx := context.Background()

	log.Infof("fetching item %s", itemID)
	item, err := client.GetItem(ctx, itemID)
	if err != nil {
		return err
	}

	manifest, err := export.NewManifest(outputFlag, item.Name, item.ID)
	if err != nil {
		return err
	}
	log.Infof("creating export in %s", manifest.Dir)

	builder := export.NewBuilder(
		assets.NewResolver(client.ResolveAssetURL),
		assets.NewDownloader(token),
		log,
	)
	builder.Build(ctx, item, manifest)

	mdPath, err := manifest.WriteDocument()
	if err != nil {
		return err
	}
	log.Infof("export complete: %s (%d files downloaded)", mdPath, manifest.DownloadedCount())

	if pdfFlag {
		if pdfPath, ok := pdf.Chain(ctx, pdf.DefaultChain(), mdPath, log); ok {
			log.Infof("PDF created: %s", pdfPath)
		} else {
			log.Warn("no PDF produced: install pandoc or wkhtmltopdf for PDF output")
		}
	}

	return nil
}
