package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/einvoice-codec/pkg/einvoice"
)

var extractOutput string

var extractCmd = &cobra.Command{
	Use:   "extract [pdf]",
	Short: "Extract the embedded invoice XML from a hybrid PDF",
	Long: `Extract the machine-readable invoice XML attached to a hybrid PDF.

All attachment name conventions are recognized (ZUGFeRD-invoice.xml,
zugferd-invoice.xml, factur-x.xml).

Examples:
  einvoice extract facturx.pdf -o invoice.xml
  einvoice extract facturx.pdf | einvoice validate /dev/stdin`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractOutput, "out", "o", "", "Output XML file (default: stdout)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	pdf, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	xml, err := einvoice.ExtractPDF(pdf)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if extractOutput == "" {
		_, err = os.Stdout.Write(xml)
		return err
	}
	return os.WriteFile(extractOutput, xml, 0o644)
}
