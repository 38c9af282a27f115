// Command translateplus is a command-line client for the TranslatePlus API.
//
// The API key and client settings come from TRANSLATEPLUS_* environment
// variables, optionally loaded from a .env file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	translateplus "github.com/translateplus/translateplus-go"
)

// errUsage is returned after usage text was printed for a bad invocation.
var errUsage = errors.New("invalid usage")

// Config holds the command's I/O streams.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns a Config wired to the process streams.
func DefaultConfig() Config {
	return Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

const usage = `usage: translateplus <command> [flags] [args]

commands:
  translate   -to LANG [-from LANG] TEXT...       translate text (stdin when no TEXT)
  batch       -to LANG [-from LANG] [-parallel N]  translate stdin, one text per line
  html        -to LANG [-from LANG] FILE          translate an HTML file (- for stdin)
  email       -to LANG [-from LANG] -subject S FILE
  subtitles   -to LANG [-from LANG] -format srt|vtt FILE
  detect      TEXT...                             detect the language of text
  languages                                       list supported languages
  account                                         show the account summary
  job create  -to LANG[,LANG] [-from LANG] [-webhook URL] FILE
  job status  JOB_ID
  job list    [-page N] [-page-size N]
  job wait    [-interval D] [-wait-timeout D] JOB_ID

common flags:
  -env FILE        .env file to load (default .env, ignored when missing)
  -output FORMAT   json or yaml (default json)
  -timeout D       overall command timeout (default 2m)
`

func run(args []string, cfg Config) error {
	if err := dispatch(args, cfg); err != nil && !errors.Is(err, flag.ErrHelp) {
		return err
	}
	return nil
}

func dispatch(args []string, cfg Config) error {
	if len(args) < 2 {
		fmt.Fprint(cfg.Stderr, usage)
		return errUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "translate":
		return runTranslate(rest, cfg)
	case "batch":
		return runBatch(rest, cfg)
	case "html":
		return runHTML(rest, cfg)
	case "email":
		return runEmail(rest, cfg)
	case "subtitles":
		return runSubtitles(rest, cfg)
	case "detect":
		return runDetect(rest, cfg)
	case "languages":
		return runSimple("languages", rest, cfg, (*translateplus.Client).SupportedLanguages)
	case "account":
		return runSimple("account", rest, cfg, (*translateplus.Client).AccountSummary)
	case "job":
		return runJob(rest, cfg)
	case "help", "-h", "--help":
		fmt.Fprint(cfg.Stdout, usage)
		return nil
	default:
		fmt.Fprintf(cfg.Stderr, "unknown command: %s\n\n%s", cmd, usage)
		return errUsage
	}
}

// commonFlags are registered on every subcommand.
type commonFlags struct {
	envFile *string
	output  *string
	timeout *time.Duration
}

func newFlagSet(name string, cfg Config) (*flag.FlagSet, *commonFlags) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(cfg.Stderr)

	return flags, &commonFlags{
		envFile: flags.String("env", ".env", "Path to the .env file"),
		output:  flags.String("output", "json", "Output format: json or yaml"),
		timeout: flags.Duration("timeout", 2*time.Minute, "Command timeout"),
	}
}

// parse parses args, mapping flag errors to errUsage. flag has already
// printed the problem and the defaults. -h yields flag.ErrHelp, which run
// treats as success.
func parse(flags *flag.FlagSet, args []string) error {
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}

// session is a configured client plus the output settings of one command.
type session struct {
	client *translateplus.Client
	ctx    context.Context
	cancel context.CancelFunc
	log    zerolog.Logger
	out    io.Writer
	format string
}

func (c *commonFlags) connect(cfg Config) (*session, error) {
	format := strings.ToLower(*c.output)
	if format != "json" && format != "yaml" {
		return nil, fmt.Errorf("unknown output format %q", *c.output)
	}

	if err := loadEnvFile(*c.envFile); err != nil {
		return nil, err
	}

	env, err := translateplus.LoadEnvConfig()
	if err != nil {
		return nil, err
	}
	level, err := env.Level()
	if err != nil {
		return nil, err
	}
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        cfg.Stderr,
		NoColor:    true,
		TimeFormat: time.RFC3339,
	}).Level(level).With().Timestamp().Logger()

	client, err := translateplus.New(env.APIKey, append(env.Options(), translateplus.WithLogger(logger))...)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *c.timeout)
	return &session{
		client: client,
		ctx:    ctx,
		cancel: cancel,
		log:    logger,
		out:    cfg.Stdout,
		format: format,
	}, nil
}

// loadEnvFile loads path without overriding variables already set. A
// missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (s *session) print(v any) error {
	if s.format == "yaml" {
		enc := yaml.NewEncoder(s.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func fatal(w io.Writer, err error) {
	if !errors.Is(err, errUsage) {
		fmt.Fprintf(w, "error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps an error to the process exit status: 2 for usage errors,
// 3 for authentication, 4 for credits, 5 for rate limiting and 1 otherwise.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	case errors.Is(err, translateplus.ErrAuthentication):
		return 3
	case errors.Is(err, translateplus.ErrInsufficientCredits):
		return 4
	case errors.Is(err, translateplus.ErrRateLimited):
		return 5
	default:
		return 1
	}
}
