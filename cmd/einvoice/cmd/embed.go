package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/einvoice-codec/pkg/einvoice"
)

var embedOutput string

var embedCmd = &cobra.Command{
	Use:   "embed [pdf] [xml]",
	Short: "Embed invoice XML into a PDF",
	Long: `Attach an invoice XML document to a PDF, producing a hybrid
(human-readable plus machine-readable) invoice.

The attachment name follows the convention of the XML's detected revision:
ZUGFeRD-invoice.xml for 1.0, factur-x.xml for current revisions.

Examples:
  einvoice embed invoice.pdf invoice.xml -o facturx.pdf`,
	Args: cobra.ExactArgs(2),
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)

	embedCmd.Flags().StringVarP(&embedOutput, "out", "o", "", "Output PDF file (required)")
	_ = embedCmd.MarkFlagRequired("out")
}

func runEmbed(cmd *cobra.Command, args []string) error {
	pdf, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	xml, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[1], err)
	}

	_, version, err := einvoice.DetectFormat(bytes.NewReader(xml))
	if err != nil {
		return fmt.Errorf("%s is not a recognized invoice document: %w", args[1], err)
	}

	printVerbose("embedding as %s\n", einvoice.AttachmentName(version))

	out, err := einvoice.EmbedPDF(pdf, xml, version)
	if err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}

	return os.WriteFile(embedOutput, out, 0o644)
}
