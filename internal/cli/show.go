package cli

import (
	"errors"

	"github.com/dl-alexandre/chspool/internal/report"
	"github.com/dl-alexandre/chspool/internal/types"
	"github.com/dl-alexandre/chspool/internal/utils"
	"github.com/spf13/cobra"
)

var showFormat string

var showCmd = &cobra.Command{
	Use:   "show FILENAME",
	Short: "Display a saved size report",
	Long: `Read a report written by chspool and print it as a table with human
readable sizes. With --json the report is printed inside the standard JSON
envelope instead.`,
	Args: exactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showFormat, "format", string(types.OutputFormatJSON), "Format of the report file (json, table)")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	flags := GetGlobalFlags()
	out := NewOutputWriter(cmd.OutOrStdout(), cmd.ErrOrStderr(), flags.JSON, flags.Quiet, flags.Verbose)

	format, err := types.ParseOutputFormat(showFormat)
	if err != nil {
		return invalidArgument(err)
	}

	path := args[0]
	r, err := report.Load(path, format)
	if err != nil {
		code := utils.ErrCodeMalformedResponse
		if errors.Is(err, report.ErrNotFound) {
			code = utils.ErrCodeReportNotFound
		}
		return utils.WrapAppError(utils.NewCLIError(code, err.Error()).
			WithContext("path", path).
			WithContext("format", string(format)).
			Build(), err)
	}

	out.Verbose("Loaded %d tables from %s", r.Len(), path)
	return out.WriteSuccess("show", r)
}
