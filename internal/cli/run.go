package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/dl-alexandre/chspool/internal/auth"
	"github.com/dl-alexandre/chspool/internal/clickhouse"
	"github.com/dl-alexandre/chspool/internal/config"
	cherrors "github.com/dl-alexandre/chspool/internal/errors"
	"github.com/dl-alexandre/chspool/internal/logging"
	"github.com/dl-alexandre/chspool/internal/report"
	"github.com/dl-alexandre/chspool/internal/scanner"
	"github.com/dl-alexandre/chspool/internal/types"
	"github.com/dl-alexandre/chspool/internal/utils"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func runRoot(cmd *cobra.Command, args []string) error {
	opts, err := optionsFromFlags(cmd, args[0])
	if err != nil {
		return err
	}

	var storage auth.StorageBackend
	if opts.KeyringUser != "" {
		storage = auth.NewKeyringStorage(utils.KeyringService)
	}
	creds, source := auth.NewResolver(storage, logger).Resolve(opts.ConfigPath, opts.KeyringUser)
	logger.Debug("Resolved credentials",
		logging.F("source", string(source)),
		logging.F("username", creds.Username),
	)

	flags := GetGlobalFlags()
	job := reportJob{
		opts:        opts,
		credentials: creds,
		transport:   transport,
		logger:      logger,
		out:         NewOutputWriter(cmd.OutOrStdout(), cmd.ErrOrStderr(), flags.JSON, flags.Quiet, flags.Verbose),
		strict:      flags.Strict,
	}
	_, err = job.run(cmd.Context())
	return err
}

// reportJob is one query, scan and write cycle
type reportJob struct {
	opts        config.Options
	credentials types.Credentials
	transport   http.RoundTripper
	logger      logging.Logger
	// out reports a failed query
	out *OutputWriter
	// strict turns a failed query into the run's error
	strict bool
}

// run executes the job. A failed query is printed to stdout and yields a nil
// report and a nil error unless strict is set; the output file is then left
// untouched either way.
func (j reportJob) run(ctx context.Context) (*types.SizeReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	traceID := uuid.New().String()
	ctx = logging.ContextWithTraceID(ctx, traceID)
	log := j.logger.WithTraceID(traceID)

	client := clickhouse.NewClient(clickhouse.Options{
		Endpoint:    j.opts.URL,
		Credentials: j.credentials,
		Timeout:     j.opts.Timeout,
		Transport:   j.transport,
		Logger:      log,
	})

	entries, err := client.DistributedTables(ctx)
	if err != nil {
		var rowErr *clickhouse.MalformedRowError
		if errors.As(err, &rowErr) {
			return nil, utils.WrapAppError(utils.NewCLIError(utils.ErrCodeMalformedResponse, err.Error()).
				WithContext("line", rowErr.Line).
				WithContext("fields", rowErr.Fields).
				Build(), err)
		}

		classified := cherrors.ClassifyQueryError(err, log)
		var appErr *utils.AppError
		if !errors.As(classified, &appErr) {
			return nil, classified
		}
		if appErr.CLIError.Code == utils.ErrCodeCancelled || j.strict {
			return nil, appErr
		}
		return nil, j.out.WriteQueryFailure(appErr.CLIError)
	}

	matcher := scanner.NewMatcher(j.opts.Exclude)
	sizes := types.NewSizeReport()
	for _, entry := range entries {
		result, err := scanner.DirSize(ctx, entry.Path, matcher)
		if err != nil {
			return nil, utils.WrapAppError(utils.NewCLIError(utils.ErrCodeCancelled, err.Error()).
				WithContext("table", entry.Identifier).
				Build(), err)
		}
		log.Debug("Scanned spool directory",
			logging.F("table", entry.Identifier),
			logging.F("path", entry.Path),
			logging.F("bytes", result.Bytes),
			logging.F("files", result.Files),
		)
		sizes.Set(entry.Identifier, result.Bytes)
	}

	if sizes.Len() == 0 {
		log.Info("No distributed tables found; report not written",
			logging.F("path", j.opts.OutputPath),
		)
		return sizes, nil
	}

	if err := report.Save(j.opts.OutputPath, j.opts.Format, sizes); err != nil {
		return nil, utils.WrapAppError(utils.NewCLIError(utils.ErrCodeOutputFailed, err.Error()).
			WithContext("path", j.opts.OutputPath).
			Build(), err)
	}

	log.Info("Report written",
		logging.F("path", j.opts.OutputPath),
		logging.F("format", string(j.opts.Format)),
		logging.F("tables", sizes.Len()),
		logging.F("totalBytes", sizes.Total()),
	)
	return sizes, nil
}
