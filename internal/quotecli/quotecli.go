// Package quotecli drives the lead forms from a terminal: it hands values off
// between forms through the persisted draft and submits a form to a running
// intake API.
package quotecli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pestpro/pestpro-api/internal/draft"
	"github.com/pestpro/pestpro-api/internal/form"
	"github.com/pestpro/pestpro-api/pkg/httpclient"
)

// Commands understood by Run
const (
	CommandHandoff = "handoff"
	CommandSubmit  = "submit"
)

// Config is the parsed command line
type Config struct {
	Command   string
	APIURL    string
	Form      form.Kind
	DraftPath string
	Query     string
	Fields    []string
	Pests     []string
	Timeout   time.Duration
}

// ParseConfig reads the command name and its flags from args.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	if len(args) == 0 {
		return Config{}, fmt.Errorf("expected a command: %s or %s", CommandHandoff, CommandSubmit)
	}

	cfg := Config{Command: args[0]}
	if cfg.Command != CommandHandoff && cfg.Command != CommandSubmit {
		return Config{}, fmt.Errorf("unknown command %q", cfg.Command)
	}

	var kind, pests string
	fs.StringVar(&cfg.APIURL, "api", "http://localhost:8080", "intake API base URL")
	fs.StringVar(&kind, "form", string(form.KindQuote), "form to fill: quote, contact or home-quote")
	fs.StringVar(&cfg.DraftPath, "draft", "pestpro-draft.db", "SQLite file holding the saved draft")
	fs.StringVar(&cfg.Query, "query", "", "query string the form page was opened with")
	fs.StringVar(&pests, "pests", "", "comma-separated pest types to toggle")
	fs.DurationVar(&cfg.Timeout, "timeout", 40*time.Second, "request timeout")
	fs.Func("set", "field=value to enter (repeatable)", func(s string) error {
		if !strings.Contains(s, "=") {
			return fmt.Errorf("expected field=value, got %q", s)
		}
		cfg.Fields = append(cfg.Fields, s)
		return nil
	})

	if err := fs.Parse(args[1:]); err != nil {
		return Config{}, err
	}

	cfg.Form = form.Kind(kind)
	if !cfg.Form.Valid() {
		return Config{}, fmt.Errorf("unknown form %q", kind)
	}
	for _, p := range strings.Split(pests, ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.Pests = append(cfg.Pests, p)
		}
	}
	return cfg, nil
}

// Run executes cfg. submitter may be nil, in which case forms are posted to
// cfg.APIURL.
func Run(ctx context.Context, cfg Config, out io.Writer, submitter form.Submitter) error {
	store, err := draft.OpenSQLite(cfg.DraftPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Command == CommandHandoff {
		return handoff(ctx, cfg, store, out)
	}

	if submitter == nil {
		submitter = form.NewHTTPSubmitter(cfg.APIURL, httpclient.New(cfg.Timeout))
	}
	return submit(ctx, cfg, store, submitter, out)
}

func handoff(ctx context.Context, cfg Config, store draft.Store, out io.Writer) error {
	var d form.Data
	if err := fill(&d, cfg); err != nil {
		return err
	}

	query, err := draft.Handoff(ctx, store, d)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	fmt.Fprintf(out, "/%s?%s\n", cfg.Form, query)
	return nil
}

func submit(ctx context.Context, cfg Config, store draft.Store, submitter form.Submitter, out io.Writer) error {
	initial, err := draft.Restore(ctx, store, cfg.Query)
	if err != nil {
		return err
	}

	c := form.NewController(cfg.Form, submitter,
		form.WithInitialData(initial),
		form.WithDraftClearer(store),
	)

	onChange := c.OnChange()
	for _, kv := range cfg.Fields {
		field, value, _ := strings.Cut(kv, "=")
		onChange(field, value)
	}
	for _, p := range cfg.Pests {
		c.TogglePestType(p)
	}

	outcome, err := c.Submit(ctx)
	if errors.Is(err, form.ErrInvalid) {
		printErrors(out, c.Errors())
		return err
	}

	if banner := c.Banner(); banner != nil {
		fmt.Fprintln(out, banner.Message)
	}
	printErrors(out, c.Errors())
	if err != nil {
		return err
	}
	if !outcome.Succeeded() {
		return errors.New("submission was not accepted")
	}
	if outcome.SubmissionID != "" {
		fmt.Fprintf(out, "submission: %s\n", outcome.SubmissionID)
	}
	return nil
}

// printErrors writes field errors one per line, sorted by field
func printErrors(out io.Writer, errs form.Errors) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(out, "%s: %s\n", f, errs[f])
	}
}

func fill(d *form.Data, cfg Config) error {
	for _, kv := range cfg.Fields {
		field, value, _ := strings.Cut(kv, "=")
		if err := d.Set(field, value); err != nil {
			return err
		}
	}
	for _, p := range cfg.Pests {
		d.AddPest(p)
	}
	return nil
}
