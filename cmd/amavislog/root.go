package main

import (
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hejijunhao/amavislog/internal/config"
	"github.com/hejijunhao/amavislog/internal/engine"
	"github.com/hejijunhao/amavislog/internal/engine/classifier"
	"github.com/hejijunhao/amavislog/internal/engine/summary"
	"github.com/hejijunhao/amavislog/internal/logging"
	"github.com/hejijunhao/amavislog/internal/output/report"
	"github.com/hejijunhao/amavislog/internal/pipeline"
	"github.com/hejijunhao/amavislog/internal/source"
)

// newRootCmd builds the amavislog command. now supplies the reference
// date for --day; stdout receives the report and stderr the diagnostics.
func newRootCmd(now func() time.Time, stdout, stderr io.Writer) *cobra.Command {
	v := config.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "amavislog [flags] LOGFILE...",
		Short: "Produce an amavisd-new log file summary",
		Long: `amavislog reads amavisd-new syslog files and prints a summary:
grand totals per Passed/Blocked outcome, a per-hour table, INFO and (!)
messages, and optionally the daemon's startup lines.

Examples:
  amavislog /var/log/mail.log
  amavislog --day yesterday /var/log/mail.log /var/log/mail.log.1
  amavislog --startup-detail --encoding utf-8 mail.log`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			logger := logging.Init(stderr, logging.ParseLevel(cfg.Log.Level))

			day := cfg.ReferenceDay(now())
			var engOpts []engine.Option
			if day != nil {
				engOpts = append(engOpts, engine.WithDay(*day))
			}
			eng := engine.New(classifier.New(cfg.Input.Service), summary.New(), engOpts...)

			p := pipeline.New(eng,
				pipeline.WithEncoding(cfg.Input.Encoding),
				pipeline.WithSkipMalformed(cfg.Input.SkipMalformed),
				pipeline.WithLogger(logger),
			)

			logger.Debug("starting", "files", len(args), "service", cfg.Input.Service, "day", cfg.Report.Day)
			snap, err := p.Run(cmd.Context(), args)
			if err != nil {
				return err
			}
			return p.Report(stdout, snap, report.Options{
				Service:     cfg.Input.Service,
				Day:         day,
				ShowStartup: cfg.Report.StartupDetail,
			})
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.amavislog.yaml or ./.amavislog.yaml)")
	flags.StringP("day", "d", "", "only summarize lines from this day: today, yesterday")
	flags.Bool("startup-detail", false, "list startup lines instead of \"none\"")
	flags.String("service", classifier.DefaultService, "syslog program name to summarize")
	flags.String("encoding", source.DefaultEncoding, "input file encoding: "+strings.Join(source.Encodings(), ", "))
	flags.Bool("skip-malformed", false, "warn about and skip lines without a syslog header instead of failing")
	flags.String("log-level", "warn", "diagnostic log level: debug, info, warn, error")

	for key, name := range map[string]string{
		config.KeyDay:           "day",
		config.KeyStartupDetail: "startup-detail",
		config.KeyService:       "service",
		config.KeyEncoding:      "encoding",
		config.KeySkipMalformed: "skip-malformed",
		config.KeyLogLevel:      "log-level",
	} {
		cobra.CheckErr(v.BindPFlag(key, flags.Lookup(name)))
	}

	return cmd
}
