// Package validation provides input validation and the calculation error taxonomy.
package validation

import (
	"fmt"

	"github.com/iwvelando/loan-quote/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV:
		return nil
	}
	return fmt.Errorf("expected output format of %s or %s, got %q",
		constants.OutputFormatPretty, constants.OutputFormatCSV, format)
}
