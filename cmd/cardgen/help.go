package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-cardgen/internal/category"
	"github.com/alnah/go-cardgen/internal/pipeline"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cardgen <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  generate   Render a sheet into a zip archive of card PDFs")
	fmt.Fprintln(w, "  serve      Serve card generation over HTTP")
	fmt.Fprintln(w, "  doctor     Check browser, templates and environment")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'cardgen help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-row details")
}

func printSourceAndRenderFlags(w io.Writer) {
	fmt.Fprintln(w, "Sources:")
	fmt.Fprintln(w, "  -t, --templates <dir>     Directory holding {category}.html templates")
	fmt.Fprintln(w, "  -l, --logos <dir>         Directory holding logo images")
	fmt.Fprintln(w, "      --escape-html         Escape row text before substitution")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --backend <s>         Render backend: rod, chromedp")
	fmt.Fprintln(w, "      --timeout <d>         Per-card render timeout (default 30s)")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent renders (0 = auto, 1 = sequential)")
	fmt.Fprintln(w, "      --on-error <s>        Render failure policy: abort, skip")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome/Chromium executable")
	fmt.Fprintln(w, "      --no-sandbox          Disable the Chrome sandbox (containers)")
	fmt.Fprintln(w)
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cardgen generate <sheet> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render every recognized row of a CSV or XLSX sheet into a PDF card")
	fmt.Fprintln(w, "and write them to a zip archive.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Archive path (default cards_jornal.zip)")
	fmt.Fprintln(w)
	printSourceAndRenderFlags(w)
	printCommonFlags(w)
	fmt.Fprintln(w)
	printTemplateReference(w)
}

func printTemplateReference(w io.Writer) {
	names := make([]string, 0, len(category.All()))
	for _, c := range category.All() {
		names = append(names, c.String()+".html")
	}
	fmt.Fprintln(w, "Templates:")
	fmt.Fprintf(w, "  files:        %s\n", strings.Join(names, ", "))
	fmt.Fprintf(w, "  placeholders: %s\n", strings.Join(pipeline.Placeholders(), " "))
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cardgen serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve POST /api/gerar (multipart field \"file\"), GET /api/health and GET /metrics.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default :8080)")
	fmt.Fprintln(w)
	printSourceAndRenderFlags(w)
	printCommonFlags(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "generate":
		printGenerateUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: cardgen doctor [--json] [-c config]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check the browser, template and logo directories, and the temp directory.")
	case "config":
		fmt.Fprintln(env.Stdout, "Usage: cardgen config [-c config]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Print the configuration after merging file, CARDGEN_* variables and defaults.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: cardgen version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: cardgen help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
