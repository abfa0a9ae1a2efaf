package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/einvoice-codec/pkg/einvoice"
)

var (
	validateFormat  string
	validateVersion string
	validateProfile string
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate invoice documents against a conformance profile",
	Long: `Validate one or more invoice documents against the field rules of a
conformance profile.

Checks performed:
  - Grammar / revision / profile combination is serializable
  - Mandatory fields of the profile are present
  - Fields forbidden by the profile are absent
  - Tax category codes are allowed by the profile
  - Stated totals agree with the computed ones (reported as warnings)

Without flags the document is validated against its own declared profile.

Examples:
  einvoice validate invoice.xml
  einvoice validate *.xml --profile xrechnung --output json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFormat, "format", "", "Target grammar (default: the document's own)")
	validateCmd.Flags().StringVar(&validateVersion, "target-version", "", "Target revision (default: the document's own)")
	validateCmd.Flags().StringVar(&validateProfile, "profile", "", "Target profile (default: the document's own)")
}

// ValidationResult holds the result of validating a single file
type ValidationResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to validate")
	}

	results := make([]*ValidationResult, 0, len(files))
	allValid := true

	for _, file := range files {
		result := validateFile(file)
		results = append(results, result)
		if !result.Valid {
			allValid = false
		}
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Printf("✓ %s: VALID\n", r.File)
			} else {
				fmt.Printf("✗ %s: INVALID\n", r.File)
				for _, e := range r.Errors {
					fmt.Printf("  - %s\n", e)
				}
			}
			for _, w := range r.Warnings {
				fmt.Printf("  ⚠ %s\n", w)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}
	return nil
}

func validateFile(file string) *ValidationResult {
	result := &ValidationResult{
		File:     file,
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
	}

	data, err := os.ReadFile(file)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read file: %v", err))
		return result
	}

	inv, err := einvoice.LoadBytes(data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("parse error: %v", err))
		return result
	}

	// flags override the document's own declared target
	format, version, profile := inv.Format, inv.Version, inv.Profile
	if validateFormat != "" {
		format = einvoice.ParseFormat(validateFormat)
	}
	if validateVersion != "" {
		version = einvoice.ParseVersion(validateVersion)
	}
	if validateProfile != "" {
		profile = einvoice.ParseProfile(validateProfile)
	}
	if format == einvoice.FormatUnknown || version == einvoice.VersionUnknown || profile == einvoice.ProfileUnknown {
		result.Valid = false
		result.Errors = append(result.Errors, "unknown target grammar, revision or profile")
		return result
	}

	for _, v := range einvoice.Validate(inv, format, version, profile) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	for _, w := range inv.Warnings {
		result.Warnings = append(result.Warnings, w.String())
	}

	return result
}
