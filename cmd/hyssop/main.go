package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	herrors "github.com/sambeau/hyssop/pkg/hypertext/errors"
	"github.com/sambeau/hyssop/pkg/hypertext/interp"
	"github.com/sambeau/hyssop/pkg/hyssop/repl"
)

// Version is set at compile time via -ldflags
var Version = "0.3.0"

var (
	// Display flags
	helpFlag        = flag.Bool("h", false, "Show help message")
	helpLongFlag    = flag.Bool("help", false, "Show help message")
	versionFlag     = flag.Bool("V", false, "Show version information")
	versionLongFlag = flag.Bool("version", false, "Show version information")

	// Evaluation flags
	evalFlag     = flag.String("e", "", "Render template string")
	evalLongFlag = flag.String("eval", "", "Render template string")
	checkFlag    = flag.Bool("check", false, "Check template syntax without rendering")

	// Data flags
	dataFlag     = flag.String("d", "", "YAML or JSON data file")
	dataLongFlag = flag.String("data", "", "YAML or JSON data file")
	outFlag      = flag.String("o", "", "Write output to file instead of stdout")
	outLongFlag  = flag.String("out", "", "Write output to file instead of stdout")
	dbFlag       = flag.String("db", "", "Database DSN to render rows from")
	queryFlag    = flag.String("query", "", "SQL query used with --db")

	setFlags bindingFlags
)

// bindingFlags collects repeated --set name=value bindings.
type bindingFlags []string

func (b *bindingFlags) String() string { return strings.Join(*b, ",") }

func (b *bindingFlags) Set(value string) error {
	*b = append(*b, value)
	return nil
}

func main() {
	// Check for subcommands first (before flag parsing)
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		serveCommand(os.Args[2:])
		return
	}

	flag.Var(&setFlags, "set", "Bind a placeholder: --set name=value (repeatable)")

	flag.Usage = printHelp
	flag.Parse()

	if *helpFlag || *helpLongFlag {
		printHelp()
		os.Exit(0)
	}

	if *versionFlag || *versionLongFlag {
		fmt.Printf("hyssop version %s\n", Version)
		os.Exit(0)
	}

	// Prefer short flags when both forms are set
	evalCode := *evalFlag
	if evalCode == "" {
		evalCode = *evalLongFlag
	}
	dataPath := *dataFlag
	if dataPath == "" {
		dataPath = *dataLongFlag
	}
	outPath := *outFlag
	if outPath == "" {
		outPath = *outLongFlag
	}

	switch {
	case evalCode != "":
		renderInline(evalCode, dataPath, outPath)
	case *checkFlag:
		files := flag.Args()
		if len(files) == 0 {
			fmt.Fprintln(os.Stderr, "Error: --check requires at least one file")
			os.Exit(2)
		}
		os.Exit(checkFiles(files))
	case len(flag.Args()) > 0:
		renderFile(flag.Args()[0], dataPath, outPath)
	default:
		repl.Start(os.Stdin, os.Stdout, Version)
	}
}

func printHelp() {
	fmt.Printf(`hyssop - context-aware HTML template renderer version %s

Usage:
  hyssop [options] [template-file]
  hyssop -e "template" [options]
  hyssop --check <file>...
  hyssop serve [options] <template-file>

Commands:
  serve                 Preview a template over HTTP with live re-render

Display Options:
  -h, --help            Show this help message
  -V, --version         Show version information

Rendering Options:
  -e, --eval <template>   Render an inline template string
  -d, --data <file>       Bind placeholders from a YAML or JSON file
  -o, --out <file>        Write output to a file instead of stdout
  --set name=value        Bind a single placeholder (repeatable)
  --db <dsn>              Render once per row of a database query
  --query <sql>           SQL query used with --db
  --check                 Check template syntax without rendering

Data sources:
  Values from --set override values from --data. With --db, the template
  is rendered once for each row, with columns bound by name; --data and
  --set bindings fill in names the row does not provide.

  The --db DSN picks the driver: postgres:// and mysql:// URLs use the
  matching driver, anything else is opened as a SQLite file.

Examples:
  hyssop                                    Start interactive REPL
  hyssop page.html -d site.yaml             Render a template file
  hyssop -e '<p>@{msg}</p>' --set msg=hi    Render inline (outputs: <p>hi</p>)
  hyssop row.html --db blog.db --query 'select title, url from posts'
  hyssop --check page.html                  Check syntax without rendering
  hyssop serve page.html -d site.yaml       Preview at http://localhost:8080

For more information, visit: https://github.com/sambeau/hyssop
`, Version)
}

// renderInline renders a template given via -e.
func renderInline(src, dataPath, outPath string) {
	data, err := buildData(dataPath, setFlags)
	if err != nil {
		printRenderError("<eval>", src, err)
		os.Exit(1)
	}

	tpl, perr := interp.Parse(src)
	if perr != nil {
		printRenderError("<eval>", src, perr)
		os.Exit(1)
	}

	output, rerr := renderToString(tpl, data)
	if rerr != nil {
		printRenderError("<eval>", src, rerr)
		os.Exit(1)
	}

	writeOutput(output, outPath)
}

// renderFile renders a template file.
func renderFile(filename, dataPath, outPath string) {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file '%s': %v\n", filename, err)
		os.Exit(1)
	}
	src := string(content)

	data, derr := buildData(dataPath, setFlags)
	if derr != nil {
		printRenderError(filename, src, derr)
		os.Exit(1)
	}

	tpl, perr := interp.Parse(src)
	if perr != nil {
		printRenderError(filename, src, perr.WithFile(filename))
		os.Exit(1)
	}

	output, rerr := renderToString(tpl, data)
	if rerr != nil {
		printRenderError(filename, src, rerr)
		os.Exit(1)
	}

	writeOutput(output, outPath)
}

// renderToString renders the template against data, or once per row when
// --db is set.
func renderToString(tpl *interp.Template, data map[string]any) (string, error) {
	if *dbFlag == "" {
		out, err := tpl.Render(data)
		return string(out), err
	}

	if *queryFlag == "" {
		return "", herrors.NewSimple(herrors.ClassDatabase, "--db requires --query")
	}

	rows, err := queryRows(*dbFlag, *queryFlag)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, row := range rows {
		merged := make(map[string]any, len(data)+len(row))
		for k, v := range data {
			merged[k] = v
		}
		for k, v := range row {
			merged[k] = v
		}
		out, rerr := tpl.Render(merged)
		if rerr != nil {
			return "", rerr
		}
		sb.WriteString(string(out))
	}
	return sb.String(), nil
}

// writeOutput writes rendered output to the --out file, or stdout.
func writeOutput(output, outPath string) {
	if outPath == "" {
		fmt.Print(output)
		if !strings.HasSuffix(output, "\n") {
			fmt.Println()
		}
		return
	}
	if err := os.WriteFile(outPath, []byte(output), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing '%s': %v\n", outPath, err)
		os.Exit(1)
	}
}

// checkFiles checks the syntax of one or more templates without rendering.
func checkFiles(files []string) int {
	hasErrors := false

	for _, filename := range files {
		content, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", filename, err)
			return 2
		}

		if _, perr := interp.Parse(string(content)); perr != nil {
			printRenderError(filename, string(content), perr.WithFile(filename))
			hasErrors = true
		}
	}

	if hasErrors {
		return 1
	}
	return 0
}

// printRenderError prints an error with hints and source context.
func printRenderError(filename, source string, err error) {
	re, ok := err.(*herrors.RenderError)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	fmt.Fprint(os.Stderr, "Error")
	displayFile := re.File
	if displayFile == "" {
		displayFile = filename
	}
	if re.Line > 0 {
		fmt.Fprintf(os.Stderr, " in %s: line %d, column %d\n", displayFile, re.Line, re.Column)
	} else if displayFile != "" {
		fmt.Fprintf(os.Stderr, " in %s\n", displayFile)
	} else {
		fmt.Fprintln(os.Stderr)
	}
	fmt.Fprintf(os.Stderr, "  %s\n", re.Message)

	for _, hint := range re.Hints {
		fmt.Fprintf(os.Stderr, "  hint: %s\n", hint)
	}

	if re.Line > 0 {
		printSourceContext(strings.Split(source, "\n"), re.Line, re.Column)
	}
}

// printSourceContext prints the source line and an error pointer.
func printSourceContext(lines []string, lineNum, colNum int) {
	if lineNum <= 0 || lineNum > len(lines) {
		return
	}

	sourceLine := lines[lineNum-1]

	// Calculate how many columns to trim from the left
	trimCount := 0
	for i := 0; i < len(sourceLine); i++ {
		if sourceLine[i] == ' ' || sourceLine[i] == '\t' {
			if sourceLine[i] == '\t' {
				trimCount += 8
			} else {
				trimCount++
			}
		} else {
			break
		}
	}

	trimmedLine := strings.TrimLeft(sourceLine, " \t")
	fmt.Fprintf(os.Stderr, "    %s\n", trimmedLine)

	if colNum > 0 {
		// Visual column accounting for tabs (8 spaces each)
		visualCol := 0
		for i := 0; i < colNum-1 && i < len(sourceLine); i++ {
			if sourceLine[i] == '\t' {
				visualCol += 8
			} else {
				visualCol++
			}
		}

		adjustedCol := max(visualCol-trimCount, 0)
		pointer := strings.Repeat(" ", adjustedCol) + "^"
		fmt.Fprintf(os.Stderr, "    %s\n", pointer)
	}
}
