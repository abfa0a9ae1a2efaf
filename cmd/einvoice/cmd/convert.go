package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/einvoice-codec/pkg/einvoice"
)

var (
	convertTo      string
	convertVersion string
	convertProfile string
	convertOutput  string
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert an invoice document to another grammar, revision or profile",
	Long: `Convert an invoice document between the CII and UBL grammars, or
between revisions and profiles of the same grammar.

The source grammar is detected automatically. Totals and the tax breakdown
are recomputed from the line detail before serialization.

Examples:
  # CII Extended to UBL XRechnung
  einvoice convert invoice.xml --to ubl --profile xrechnung -o xrechnung.xml

  # Downgrade to the first CII revision
  einvoice convert invoice.xml --to cii --target-version 1.0 --profile comfort`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&convertTo, "to", "cii", "Target grammar (cii, ubl)")
	convertCmd.Flags().StringVar(&convertVersion, "target-version", "2.3", "Target revision (1.0, 2.0, 2.1, 2.2, 2.3)")
	convertCmd.Flags().StringVar(&convertProfile, "profile", "en16931", "Target profile (minimum, basicwl, basic, en16931, extended, xrechnung)")
	convertCmd.Flags().StringVarP(&convertOutput, "out", "o", "", "Output file (default: stdout)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	format := einvoice.ParseFormat(convertTo)
	target := einvoice.ParseVersion(convertVersion)
	profile := einvoice.ParseProfile(convertProfile)
	if format == einvoice.FormatUnknown || target == einvoice.VersionUnknown || profile == einvoice.ProfileUnknown {
		return fmt.Errorf("unknown target grammar, revision or profile")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	inv, err := einvoice.LoadBytes(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	printVerbose("parsed %s: %s %s, profile %s\n",
		args[0], inv.Format, inv.Version, inv.Profile)

	out, err := einvoice.SaveBytes(inv, format, target, profile)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if convertOutput == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(convertOutput, out, 0o644)
}
