// Package cli 解析命令行参数并与 ini 配置合并，命令行优先
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"internal2vol/config"
	"internal2vol/foam"
	"internal2vol/model"
)

// ExitError 带退出码的错误
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, a ...interface{}) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, a...)}
}

// Options 合并后的运行参数
type Options struct {
	CaseDir  string
	Selector foam.Selector

	Fields       []string
	VectorFields []string
	Suffix       string

	LogLevel  string
	LogFormat string
	FeedAddr  string

	// 实际读取的配置文件，没有读取时为空
	ConfigFile string
}

// Parse 解析参数。第二个返回值为 true 表示已输出帮助，应直接退出。
func Parse(args []string, output io.Writer) (*Options, bool, error) {
	fs := flag.NewFlagSet("internal2vol", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, `
internal2vol - write volScalarField/volVectorField copies of Internal fields.

Usage:
  internal2vol [options]

Options:
`)
		fs.PrintDefaults()
	}

	caseDir := fs.String("case", ".", "Case directory.")
	timeFlag := fs.String("time", "", "Times to select, e.g. '0.1:0.5,1' or ':0.2'. A single value selects the nearest time.")
	latest := fs.Bool("latestTime", false, "Select the latest time.")
	constant := fs.Bool("constant", false, "Include the 'constant' directory.")
	withZero := fs.Bool("withZero", false, "Include the '0' directory.")
	noZero := fs.Bool("noZero", false, "Exclude the '0' directory, overrides -withZero.")
	fieldsFlag := fs.String("fields", "", "Scalar Internal fields to promote, e.g. '(alpha.particles theta)'.")
	vectorFlag := fs.String("vectorFields", "", "Vector Internal fields to promote, e.g. '(U.particles)'.")
	configFlag := fs.String("config", "", "ini file with defaults (default <case>/"+config.DefaultFile+" when present).")
	suffix := fs.String("suffix", model.DefaultSuffix, "Suffix appended to promoted field names.")
	logLevel := fs.String("log-level", "info", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	logFormat := fs.String("log-format", "text", "Log output format: 'text' or 'json'.")
	feed := fs.String("feed", "", "Serve progress over websocket at this address, e.g. ':9000'. Empty disables it.")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if fs.NArg() > 0 {
		return nil, false, usageError("unexpected argument %q", fs.Arg(0))
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	cfg := config.Default()
	cfgPath := ""
	if set["config"] {
		cfgPath = *configFlag
	} else if p, ok := config.DefaultPath(*caseDir); ok {
		cfgPath = p
	}
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return nil, false, usageError("%v", err)
		}
	}

	opts := &Options{
		CaseDir: *caseDir,
		Selector: foam.Selector{
			Latest:   *latest,
			Constant: *constant,
			WithZero: *withZero,
			NoZero:   *noZero,
		},
		Fields:       cfg.Fields,
		VectorFields: cfg.VectorFields,
		Suffix:       cfg.Suffix,
		LogLevel:     cfg.LogLevel,
		LogFormat:    cfg.LogFormat,
		FeedAddr:     cfg.FeedAddr,
		ConfigFile:   cfgPath,
	}

	if set["time"] {
		ranges, err := foam.ParseTimeRanges(*timeFlag)
		if err != nil {
			return nil, false, usageError("invalid -time: %v", err)
		}
		opts.Selector.Ranges = ranges
	}
	if set["fields"] {
		words, err := foam.ParseWordList(*fieldsFlag)
		if err != nil {
			return nil, false, usageError("invalid -fields: %v", err)
		}
		opts.Fields = words
	}
	if set["vectorFields"] {
		words, err := foam.ParseWordList(*vectorFlag)
		if err != nil {
			return nil, false, usageError("invalid -vectorFields: %v", err)
		}
		opts.VectorFields = words
	}
	if set["suffix"] {
		opts.Suffix = *suffix
	}
	if set["log-level"] {
		opts.LogLevel = *logLevel
	}
	if set["log-format"] {
		opts.LogFormat = *logFormat
	}
	if set["feed"] {
		opts.FeedAddr = *feed
	}

	if opts.Suffix == "" {
		return nil, false, usageError("invalid suffix: must not be empty")
	}
	opts.LogFormat = strings.ToLower(opts.LogFormat)
	if opts.LogFormat != "text" && opts.LogFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}
	opts.LogLevel = strings.ToLower(opts.LogLevel)
	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	return opts, false, nil
}
