package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"golang.org/x/term"

	formengine "github.com/goliatone/go-formengine"
	"github.com/goliatone/go-formengine/pkg/client"
	"github.com/goliatone/go-formengine/pkg/config"
	"github.com/goliatone/go-formengine/pkg/normalize"
	"github.com/goliatone/go-formengine/pkg/options"
	"github.com/goliatone/go-formengine/pkg/orchestrator"
	"github.com/goliatone/go-formengine/pkg/renderers/tui"
	"github.com/goliatone/go-formengine/pkg/schema"
	"github.com/goliatone/go-formengine/pkg/session"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults and FORMENGINE_* env when empty)")
	formType := flag.String("type", "health", "form type to fill: "+strings.Join(schema.FormTypes(), ", "))
	format := flag.String("format", string(tui.OutputFormatPrettyText), "output format: json, form, pretty")
	output := flag.String("output", "", "output file for the collected values (stdout if empty)")
	source := flag.String("source", "", "catalogue file path or URL overriding the forms API")
	dryRun := flag.Bool("dry-run", false, "collect and validate without submitting")
	summary := flag.Bool("summary", false, "print submission counts by insurance type and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *source != "" {
		cfg.SchemaSource = *source
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.New(cfg.BaseURL, client.WithTimeout(cfg.Timeout))

	if *summary {
		if err := printSummary(ctx, api); err != nil {
			log.Fatalf("Failed to list submissions: %v", err)
		}
		return
	}

	store, closeStore, err := cfg.Draft.OpenStore(ctx)
	if err != nil {
		log.Fatalf("Failed to open draft store: %v", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Printf("close draft store: %v", err)
		}
	}()

	schemaSource, err := buildSchemaSource(cfg, api)
	if err != nil {
		log.Fatalf("invalid schema source: %v", err)
	}

	fetcherOpts := []options.HTTPOption{options.WithTimeout(cfg.Timeout)}
	for name, value := range cfg.Headers {
		fetcherOpts = append(fetcherOpts, options.WithHeader(name, value))
	}

	var normOpts []normalize.Option
	if cfg.Sanitize {
		normOpts = append(normOpts, normalize.WithSanitizer(normalize.StripMarkup()))
	}

	gen := formengine.NewOrchestrator(
		orchestrator.WithSchemaSource(schemaSource),
		orchestrator.WithNormalizer(normalize.New(normOpts...)),
		orchestrator.WithFetcher(options.NewHTTPFetcher(cfg.BaseURL, fetcherOpts...)),
		orchestrator.WithDraftStore(store),
		orchestrator.WithSubmitter(api),
		orchestrator.WithAutosaveInterval(cfg.Draft.Autosave),
	)

	sess, err := gen.Open(ctx, *formType)
	if err != nil {
		log.Fatalf("Failed to open form: %v", err)
	}
	defer sess.Close()

	renderer := tui.New(tui.WithOutputFormat(tui.OutputFormat(*format)), tui.WithOutput(os.Stdout))

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		// Nothing to prompt on; print the restored values.
		out, err := renderer.Encode(sess.Values())
		if err != nil {
			log.Fatalf("Failed to render values: %v", err)
		}
		writeOutput(*output, out)
		return
	}

	values, err := renderer.Fill(ctx, sess)
	if err != nil {
		if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
			if saveErr := sess.SaveDraft(context.Background()); saveErr != nil {
				log.Fatalf("Aborted; failed to save draft: %v", saveErr)
			}
			fmt.Fprintln(os.Stderr, "Aborted; draft saved.")
			os.Exit(1)
		}
		log.Fatalf("Failed to fill form: %v", err)
	}

	out, err := renderer.Encode(values)
	if err != nil {
		log.Fatalf("Failed to render values: %v", err)
	}
	writeOutput(*output, out)

	if *dryRun {
		if err := sess.SaveDraft(ctx); err != nil {
			log.Printf("save draft: %v", err)
		}
		return
	}

	if err := sess.Submit(ctx); err != nil {
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			for _, id := range sortedKeys(verr.Errors) {
				fmt.Fprintf(os.Stderr, "%s: %s\n", id, verr.Errors[id])
			}
		}
		log.Fatalf("Failed to submit form: %v", err)
	}
	fmt.Println("Form submitted.")
}

func buildSchemaSource(cfg config.Config, api *client.Client) (orchestrator.SchemaSource, error) {
	if strings.TrimSpace(cfg.SchemaSource) == "" {
		return api, nil
	}
	src, err := schema.ParseSource(cfg.SchemaSource)
	if err != nil {
		return nil, err
	}
	loader := formengine.NewLoader(schema.WithHTTPFallback(cfg.Timeout))
	return orchestrator.NewLoaderSource(loader, src), nil
}

func printSummary(ctx context.Context, api *client.Client) error {
	records, err := api.Submissions(ctx)
	if err != nil {
		return err
	}
	counts := client.CountByType(records)
	types := make([]string, 0, len(counts))
	for name := range counts {
		types = append(types, name)
	}
	sort.Strings(types)

	fmt.Printf("%d submissions\n", len(records))
	for _, name := range types {
		fmt.Printf("  %s: %d\n", name, counts[name])
	}
	return nil
}

func writeOutput(path string, data []byte) {
	if path == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	fmt.Printf("Values written to %s\n", path)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
