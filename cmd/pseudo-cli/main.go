package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	pseudo "github.com/goliatone/go-pseudo"
	"github.com/goliatone/go-pseudo/internal/prompt"
	"github.com/goliatone/go-pseudo/pkg/orchestrator"
	"github.com/goliatone/go-pseudo/pkg/source"
	"github.com/goliatone/go-pseudo/pkg/target"
)

func main() {
	input := flag.String("input", "", "pseudo tree document path or URL (YAML or JSON)")
	targetName := flag.String("target", "", "target language (default cpp)")
	output := flag.String("output", "", "output file (stdout if empty)")
	header := flag.String("header", "", "comment block emitted above the generated code")
	banner := flag.Bool("banner", false, "emit a generated-code banner")
	rename := flag.String("rename", "", "YAML rename preset applied before generation")
	timeout := flag.Duration("timeout", 30*time.Second, "timeout for remote documents")
	interactive := flag.Bool("interactive", false, "prompt for missing settings")
	flag.Parse()

	ctx := context.Background()

	options := []orchestrator.Option{
		orchestrator.WithLoader(pseudo.NewLoader(source.WithHTTPFallback(*timeout))),
	}
	if *rename != "" {
		data, err := os.ReadFile(*rename)
		if err != nil {
			log.Fatalf("Failed to read rename preset: %v", err)
		}
		preset, err := orchestrator.NewRenamePreset(data)
		if err != nil {
			log.Fatalf("Invalid rename preset: %v", err)
		}
		options = append(options, orchestrator.WithTransformer(preset))
	}
	gen := pseudo.NewOrchestrator(options...)

	settings := prompt.Settings{
		Input:  *input,
		Target: *targetName,
		Output: *output,
		Header: *header,
		Banner: *banner,
	}
	driver := prompt.NewSurveyDriver()
	if *interactive {
		var err error
		settings, err = prompt.Complete(ctx, driver, settings, gen.Targets())
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}
	}

	src, err := parseSource(settings.Input)
	if err != nil {
		log.Fatalf("Invalid input: %v", err)
	}

	res, err := gen.Run(ctx, orchestrator.Request{
		Source: src,
		Target: settings.Target,
		Options: target.Options{
			Header: settings.Header,
			Banner: settings.Banner,
		},
	})
	if err != nil {
		log.Fatalf("Failed to generate source: %v", err)
	}

	if settings.Output == "" {
		fmt.Print(string(res.Output))
		return
	}
	if *interactive {
		ok, err := prompt.ConfirmOverwrite(ctx, driver, settings.Output)
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}
		if !ok {
			log.Printf("Left %s unchanged", settings.Output)
			return
		}
	}
	if err := os.WriteFile(settings.Output, res.Output, 0o644); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	fmt.Printf("%s source written to %s\n", res.Target, settings.Output)
}

func parseSource(raw string) (source.Source, error) {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil, fmt.Errorf("input is required")
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return source.FromURL(path)
	}
	return source.FromFile(path), nil
}
