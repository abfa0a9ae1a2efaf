package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "einvoice",
	Short: "Convert, validate and inspect electronic invoices (CII and UBL)",
	Long: `einvoice is a CLI for the hybrid e-invoicing document family.

Supports:
  - CII (UN/CEFACT Cross Industry Invoice), revisions 1.0 through 2.3
  - UBL Invoice (OASIS), revision 2.3 profiles
  - Hybrid PDFs with an embedded invoice XML attachment

Examples:
  # Convert a CII document to UBL XRechnung
  einvoice convert invoice.xml --to ubl --profile xrechnung -o out.xml

  # Detect format, revision and profile
  einvoice detect *.xml

  # Validate against a target profile
  einvoice validate invoice.xml --profile xrechnung

  # Embed invoice XML into a PDF
  einvoice embed invoice.pdf invoice.xml -o facturx.pdf`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "Output format (json, table)")
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}

		if len(matches) == 0 {
			if _, err := os.Stat(arg); err != nil {
				return nil, fmt.Errorf("file not found: %s", arg)
			}
			files = append(files, arg)
			continue
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				continue
			}
			if !info.IsDir() {
				files = append(files, match)
			}
		}
	}

	return files, nil
}
