package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	translateplus "github.com/translateplus/translateplus-go"
)

// languageFlags are the -from and -to flags shared by the translate commands.
type languageFlags struct {
	from *string
	to   *string
}

func addLanguageFlags(flags *flag.FlagSet) *languageFlags {
	return &languageFlags{
		from: flags.String("from", translateplus.AutoDetect, "Source language code"),
		to:   flags.String("to", "", "Target language code (required)"),
	}
}

func (l *languageFlags) validate(cfg Config) error {
	if strings.TrimSpace(*l.to) == "" {
		fmt.Fprintln(cfg.Stderr, "-to is required")
		return errUsage
	}
	return nil
}

func runTranslate(args []string, cfg Config) error {
	flags, common := newFlagSet("translate", cfg)
	langs := addLanguageFlags(flags)
	if err := parse(flags, args); err != nil {
		return err
	}
	if err := langs.validate(cfg); err != nil {
		return err
	}

	text := strings.Join(flags.Args(), " ")
	if text == "" {
		data, err := io.ReadAll(cfg.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimSpace(string(data))
	}

	s, err := common.connect(cfg)
	if err != nil {
		return err
	}
	defer s.cancel()

	res, err := s.client.Translate(s.ctx, text, *langs.from, *langs.to)
	if err != nil {
		return err
	}
	return s.print(res)
}

func runBatch(args []string, cfg Config) error {
	flags, common := newFlagSet("batch", cfg)
	langs := addLanguageFlags(flags)
	parallel := flags.Int("parallel", 2, "Number of batch requests to run at once")
	if err := parse(flags, args); err != nil {
		return err
	}
	if err := langs.validate(cfg); err != nil {
		return err
	}

	texts, err := readLines(cfg.Stdin)
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		fmt.Fprintln(cfg.Stderr, "batch reads one text per line from stdin; got none")
		return errUsage
	}

	s, err := common.connect(cfg)
	if err != nil {
		return err
	}
	defer s.cancel()

	res, err := translateChunks(s, texts, *langs.from, *langs.to, *parallel)
	if err != nil {
		return err
	}
	return s.print(res)
}

// translateChunks splits texts into MaxBatchSize chunks, translates up to
// parallel chunks at once and merges the translations in input order.
func translateChunks(s *session, texts []string, from, to string, parallel int) (map[string]any, error) {
	var chunks [][]string
	for start := 0; start < len(texts); start += translateplus.MaxBatchSize {
		end := min(start+translateplus.MaxBatchSize, len(texts))
		chunks = append(chunks, texts[start:end])
	}

	results := make([]translateplus.Result, len(chunks))
	g, gctx := errgroup.WithContext(s.ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, chunk := range chunks {
		g.Go(func() error {
			s.log.Debug().Int("chunk", i).Int("texts", len(chunk)).Msg("translating batch")
			res, err := s.client.TranslateBatch(gctx, chunk, from, to)
			if err != nil {
				return fmt.Errorf("batch %d: %w", i+1, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]any, 0, len(texts))
	for _, res := range results {
		items, _ := res["translations"].([]any)
		merged = append(merged, items...)
	}
	return map[string]any{
		"translations": merged,
		"total":        len(merged),
	}, nil
}

func runHTML(args []string, cfg Config) error {
	flags, common := newFlagSet("html", cfg)
	langs := addLanguageFlags(flags)
	if err := parse(flags, args); err != nil {
		return err
	}
	if err := langs.validate(cfg); err != nil {
		return err
	}

	html, err := readInput(flags.Arg(0), cfg)
	if err != nil {
		return err
	}

	s, err := common.connect(cfg)
	if err != nil {
		return err
	}
	defer s.cancel()

	res, err := s.client.TranslateHTML(s.ctx, html, *langs.from, *langs.to)
	if err != nil {
		return err
	}
	return s.print(res)
}

func runEmail(args []string, cfg Config) error {
	flags, common := newFlagSet("email", cfg)
	langs := addLanguageFlags(flags)
	subject := flags.String("subject", "", "Email subject")
	if err := parse(flags, args); err != nil {
		return err
	}
	if err := langs.validate(cfg); err != nil {
		return err
	}

	body, err := readInput(flags.Arg(0), cfg)
	if err != nil {
		return err
	}

	s, err := common.connect(cfg)
	if err != nil {
		return err
	}
	defer s.cancel()

	res, err := s.client.TranslateEmail(s.ctx, *subject, body, *langs.from, *langs.to)
	if err != nil {
		return err
	}
	return s.print(res)
}

func runSubtitles(args []string, cfg Config) error {
	flags, common := newFlagSet("subtitles", cfg)
	langs := addLanguageFlags(flags)
	format := flags.String("format", translateplus.FormatSRT, "Subtitle format: srt or vtt")
	if err := parse(flags, args); err != nil {
		return err
	}
	if err := langs.validate(cfg); err != nil {
		return err
	}

	content, err := readInput(flags.Arg(0), cfg)
	if err != nil {
		return err
	}

	s, err := common.connect(cfg)
	if err != nil {
		return err
	}
	defer s.cancel()

	res, err := s.client.TranslateSubtitles(s.ctx, content, *format, *langs.from, *langs.to)
	if err != nil {
		return err
	}
	return s.print(res)
}

func runDetect(args []string, cfg Config) error {
	flags, common := newFlagSet("detect", cfg)
	if err := parse(flags, args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		fmt.Fprintln(cfg.Stderr, "detect requires TEXT")
		return errUsage
	}

	s, err := common.connect(cfg)
	if err != nil {
		return err
	}
	defer s.cancel()

	res, err := s.client.DetectLanguage(s.ctx, strings.Join(flags.Args(), " "))
	if err != nil {
		return err
	}
	return s.print(res)
}

func runSimple(name string, args []string, cfg Config, call func(*translateplus.Client, context.Context) (translateplus.Result, error)) error {
	flags, common := newFlagSet(name, cfg)
	if err := parse(flags, args); err != nil {
		return err
	}

	s, err := common.connect(cfg)
	if err != nil {
		return err
	}
	defer s.cancel()

	res, err := call(s.client, s.ctx)
	if err != nil {
		return err
	}
	return s.print(res)
}

func runJob(args []string, cfg Config) error {
	if len(args) == 0 {
		fmt.Fprint(cfg.Stderr, usage)
		return errUsage
	}

	switch args[0] {
	case "create":
		return runJobCreate(args[1:], cfg)
	case "status":
		return runJobStatus(args[1:], cfg)
	case "list":
		return runJobList(args[1:], cfg)
	case "wait":
		return runJobWait(args[1:], cfg)
	default:
		fmt.Fprintf(cfg.Stderr, "unknown job command: %s\n\n%s", args[0], usage)
		return errUsage
	}
}

func runJobCreate(args []string, cfg Config) error {
	flags, common := newFlagSet("job create", cfg)
	from := flags.String("from", translateplus.AutoDetect, "Source language code")
	to := flags.String("to", "", "Comma-separated target language codes (required)")
	webhook := flags.String("webhook", "", "URL called when the job finishes")
	if err := parse(flags, args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(cfg.Stderr, "job create requires one FILE")
		return errUsage
	}

	var targets []string
	for _, code := range strings.Split(*to, ",") {
		if code = strings.TrimSpace(code); code != "" {
			targets = append(targets, code)
		}
	}

	s, err := common.connect(cfg)
	if err != nil {
		return err
	}
	defer s.cancel()

	opts := []translateplus.I18nJobOption{translateplus.WithSourceLanguage(*from)}
	if *webhook != "" {
		opts = append(opts, translateplus.WithWebhookURL(*webhook))
	}

	res, err := s.client.CreateI18nJob(s.ctx, flags.Arg(0), targets, opts...)
	if err != nil {
		return err
	}
	return s.print(res)
}

func runJobStatus(args []string, cfg Config) error {
	flags, common := newFlagSet("job status", cfg)
	if err := parse(flags, args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(cfg.Stderr, "job status requires one JOB_ID")
		return errUsage
	}

	s, err := common.connect(cfg)
	if err != nil {
		return err
	}
	defer s.cancel()

	res, err := s.client.I18nJobStatus(s.ctx, flags.Arg(0))
	if err != nil {
		return err
	}
	return s.print(res)
}

func runJobList(args []string, cfg Config) error {
	flags, common := newFlagSet("job list", cfg)
	page := flags.Int("page", translateplus.DefaultJobsPage, "Page number")
	pageSize := flags.Int("page-size", translateplus.DefaultJobsPageSize, "Jobs per page")
	if err := parse(flags, args); err != nil {
		return err
	}

	s, err := common.connect(cfg)
	if err != nil {
		return err
	}
	defer s.cancel()

	res, err := s.client.ListI18nJobs(s.ctx, *page, *pageSize)
	if err != nil {
		return err
	}
	return s.print(res)
}

func runJobWait(args []string, cfg Config) error {
	flags, common := newFlagSet("job wait", cfg)
	interval := flags.Duration("interval", 5*time.Second, "Time between status checks")
	waitTimeout := flags.Duration("wait-timeout", 10*time.Minute, "How long to wait for the job")
	if err := parse(flags, args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(cfg.Stderr, "job wait requires one JOB_ID")
		return errUsage
	}
	// The command deadline must not end the wait early.
	*common.timeout = max(*common.timeout, *waitTimeout)

	s, err := common.connect(cfg)
	if err != nil {
		return err
	}
	defer s.cancel()

	jobID := flags.Arg(0)
	s.log.Info().Str("job_id", jobID).Dur("interval", *interval).Msg("waiting for job")

	res, err := s.client.WaitForI18nJob(s.ctx, jobID,
		translateplus.WithPollInterval(*interval),
		translateplus.WithWaitTimeout(*waitTimeout),
	)
	if err != nil {
		return err
	}
	return s.print(res)
}

// readInput returns the contents of path, or of stdin when path is "" or "-".
func readInput(path string, cfg Config) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cfg.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// readLines returns the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return lines, nil
}
