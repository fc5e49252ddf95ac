// Package cli implements the command line surface. Two commands cover the
// two conversion directions: "exportar" turns a browser HTML export into
// JSON, "importar" turns JSON back into importable HTML.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/DiasPedroQA/bookmark-converter/internal/app"
	"github.com/DiasPedroQA/bookmark-converter/internal/bookmark"
	"github.com/DiasPedroQA/bookmark-converter/internal/convert"
	"github.com/DiasPedroQA/bookmark-converter/internal/version"
)

const usage = `Usage: bookmark-converter <command> [options]

Commands:
  exportar <in.html> [out.json]   convert a browser bookmark HTML export to JSON
  importar <in.json> [out.html]   convert a bookmark JSON document to importable HTML
  serve                           run the conversion HTTP API
  version                         print build information
  help                            show this message

Options for exportar/importar:
  -o <file>         write output to file (same as the second argument)
  -depth <n>        maximum folder nesting accepted (default 128)

Without an output file the result goes to stdout. An input of "-" reads
from stdin.`

// Run executes the CLI and returns the process exit code: 0 on success,
// 1 on conversion failure, 2 on usage errors.
func Run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}

	switch args[0] {
	case "exportar":
		return runConvert(args[1:], convert.FormatHTML, convert.FormatJSON)
	case "importar":
		return runConvert(args[1:], convert.FormatJSON, convert.FormatHTML)
	case "serve":
		if err := app.New().Run(); err != nil {
			fmt.Fprintf(os.Stderr, "bookmark-converter: %v\n", err)
			return 1
		}
		return 0
	case "version":
		fmt.Printf("bookmark-converter %s (commit=%s, built=%s, go=%s)\n",
			version.Version, version.Commit, version.BuildDate, version.GoVersion)
		return 0
	case "help", "-h", "--help":
		fmt.Println(usage)
		return 0
	}

	fmt.Fprintf(os.Stderr, "bookmark-converter: unknown command %q\n\n%s\n", args[0], usage)
	return 2
}

func runConvert(args []string, from, to convert.Format) int {
	fs := flag.NewFlagSet(string(from)+"->"+string(to), flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	output := fs.String("o", "", "output file (default stdout)")
	depth := fs.Int("depth", 0, "maximum folder nesting")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	switch fs.NArg() {
	case 1:
	case 2:
		if *output == "" {
			*output = fs.Arg(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "bookmark-converter: expected an input file and an optional output file")
		return 2
	}

	input, err := readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "bookmark-converter: %v\n", err)
		return 1
	}

	out, warnings, err := convert.New(*depth).Convert(input, from, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bookmark-converter: %s: %v\n", bookmark.ErrorKind(err), err)
		return 1
	}

	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if *output == "" {
		if _, err := os.Stdout.Write(out); err != nil {
			fmt.Fprintf(os.Stderr, "bookmark-converter: %v\n", err)
			return 1
		}
		return 0
	}

	if err := os.WriteFile(*output, out, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "bookmark-converter: %v\n", err)
		return 1
	}
	return 0
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
