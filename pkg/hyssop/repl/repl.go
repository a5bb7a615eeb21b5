// Package repl implements the interactive template console: type markup
// with @{name} placeholders, bind names with :set, and see the rendered
// output immediately.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"gopkg.in/yaml.v3"

	"github.com/sambeau/hyssop/pkg/hypertext/interp"
)

const PROMPT = ">> "
const CONTINUATION_PROMPT = ".. "

const LOGO = `
█░█ █▄█ █▀ █▀ █▀█ █▀█
█▀█ ░█░ ▄█ ▄█ █▄█ █▀▀ `

// Common tag names and REPL commands offered for tab completion.
var completionWords = []string{
	":help", ":set", ":unset", ":data", ":names", ":clear",
	"exit", "quit",
	"<a", "<abbr", "<article", "<aside", "<b", "<blockquote", "<body",
	"<button", "<code", "<div", "<em", "<footer", "<form", "<h1", "<h2",
	"<h3", "<head", "<header", "<html", "<i", "<img", "<input", "<label",
	"<li", "<link", "<main", "<meta", "<nav", "<ol", "<option", "<p",
	"<pre", "<script", "<section", "<select", "<small", "<span", "<strong",
	"<style", "<table", "<tbody", "<td", "<textarea", "<th", "<thead",
	"<time", "<title", "<tr", "<ul",
}

// Start runs the REPL with line editing, history, and tab completion.
func Start(in io.Reader, out io.Writer, version string) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	data := map[string]any{}

	line.SetCompleter(func(line string) []string {
		return filterCompletions(line, data)
	})

	historyFile := filepath.Join(os.TempDir(), ".hyssop_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(out, "%s", LOGO)
	fmt.Fprintln(out, "v", version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type markup with @{name} placeholders to render it")
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Use Tab for completion, ↑↓ for history")
	fmt.Fprintln(out, "Type ':help' for REPL commands")
	fmt.Fprintln(out, "")

	var inputBuffer strings.Builder

	for {
		currentPrompt := PROMPT
		if inputBuffer.Len() > 0 {
			currentPrompt = CONTINUATION_PROMPT
		}
		input, err := line.Prompt(currentPrompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl+C clears any buffered input and returns to the
				// main prompt
				if inputBuffer.Len() > 0 {
					fmt.Fprintln(out, "^C (cleared)")
				} else {
					fmt.Fprintln(out, "^C")
				}
				inputBuffer.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		trimmed := strings.TrimSpace(input)
		if inputBuffer.Len() == 0 && (trimmed == "exit" || trimmed == "quit") {
			fmt.Fprintln(out, "Goodbye!")
			return
		}

		if inputBuffer.Len() == 0 && strings.HasPrefix(trimmed, ":") {
			handleReplCommand(trimmed, data, out)
			continue
		}

		if inputBuffer.Len() == 0 && trimmed == "" {
			continue
		}

		if inputBuffer.Len() > 0 {
			inputBuffer.WriteString("\n")
		}
		inputBuffer.WriteString(input)

		fullInput := inputBuffer.String()
		if needsMoreInput(fullInput) {
			continue
		}

		if trimmed != "" {
			line.AppendHistory(fullInput)
		}

		renderInput(fullInput, data, out)
		inputBuffer.Reset()
	}
}

// renderInput parses and renders one complete template against the
// session's bound data.
func renderInput(src string, data map[string]any, out io.Writer) {
	tpl, perr := interp.Parse(src)
	if perr != nil {
		printError(out, perr.String())
		return
	}
	rendered, err := tpl.Render(data)
	if err != nil {
		printError(out, err.Error())
		return
	}
	io.WriteString(out, string(rendered))
	if !strings.HasSuffix(string(rendered), "\n") {
		io.WriteString(out, "\n")
	}
}

// handleReplCommand handles REPL meta-commands that start with ':'.
func handleReplCommand(cmd string, data map[string]any, out io.Writer) {
	name, rest, _ := strings.Cut(cmd, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case ":help", ":h", ":?":
		fmt.Fprintln(out, "REPL Commands:")
		fmt.Fprintln(out, "  :help, :h, :?       Show this help")
		fmt.Fprintln(out, "  :set <name> <value> Bind a placeholder name (value is YAML)")
		fmt.Fprintln(out, "  :unset <name>       Remove a binding")
		fmt.Fprintln(out, "  :data               Show current bindings")
		fmt.Fprintln(out, "  :names <template>   List the placeholder names in a template")
		fmt.Fprintln(out, "  :clear              Remove all bindings")
		fmt.Fprintln(out, "  exit, quit          Exit the REPL")

	case ":set":
		key, value, found := strings.Cut(rest, " ")
		if key == "" || !found {
			fmt.Fprintln(out, "Usage: :set <name> <value>")
			return
		}
		var v any
		if err := yaml.Unmarshal([]byte(value), &v); err != nil {
			// Not valid YAML, keep it as a plain string
			v = value
		}
		data[key] = v
		fmt.Fprintf(out, "%s = %v\n", key, v)

	case ":unset":
		if rest == "" {
			fmt.Fprintln(out, "Usage: :unset <name>")
			return
		}
		delete(data, rest)

	case ":data":
		printData(data, out)

	case ":names":
		if rest == "" {
			fmt.Fprintln(out, "Usage: :names <template>")
			return
		}
		tpl, err := interp.Parse(rest)
		if err != nil {
			printError(out, err.String())
			return
		}
		for _, n := range tpl.Names() {
			fmt.Fprintf(out, "  %s\n", n)
		}

	case ":clear":
		for k := range data {
			delete(data, k)
		}
		fmt.Fprintln(out, "Bindings cleared")

	default:
		fmt.Fprintf(out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

// printData displays the session's bindings, sorted by name.
func printData(data map[string]any, out io.Writer) {
	if len(data) == 0 {
		fmt.Fprintln(out, "(no bindings)")
		return
	}

	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := fmt.Sprintf("%v", data[name])
		if len(value) > 60 {
			value = value[:57] + "..."
		}
		fmt.Fprintf(out, "  %s = %s\n", name, value)
	}
}

// filterCompletions returns completion suggestions based on current input.
func filterCompletions(line string, data map[string]any) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	if len(line) > 0 && (line[len(line)-1] == ' ' || line[len(line)-1] == '\t') {
		return nil
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}
	lastWord := words[len(words)-1]

	// Inside a placeholder, complete bound data names
	if at := strings.LastIndex(lastWord, "@{"); at >= 0 && !strings.Contains(lastWord[at:], "}") {
		prefix := lastWord[at+2:]
		var matches []string
		for name := range data {
			if strings.HasPrefix(name, prefix) {
				matches = append(matches, lastWord[:at+2]+name+"}")
			}
		}
		sort.Strings(matches)
		return matches
	}

	var matches []string
	for _, word := range completionWords {
		if strings.HasPrefix(word, lastWord) {
			matches = append(matches, word)
		}
	}
	return matches
}

// needsMoreInput checks if the input has an unclosed tag or placeholder,
// so multi-line templates can be entered naturally.
func needsMoreInput(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}

	tagCount := 0
	openPlaceholder := false

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if openPlaceholder {
			if ch == '}' {
				openPlaceholder = false
			}
			continue
		}

		switch ch {
		case '@':
			if i > 0 && input[i-1] == '\\' {
				continue
			}
			if i+1 < len(input) && input[i+1] == '{' {
				openPlaceholder = true
				i++
			}
		case '<':
			if i+1 < len(input) {
				next := input[i+1]
				if next == '/' {
					if i+2 < len(input) && isTagNameStart(input[i+2]) {
						tagCount--
					}
				} else if isTagNameStart(next) {
					tagEnd := findTagEnd(input, i)
					if tagEnd > i && input[tagEnd-1] == '/' {
						// Self-closing, balanced on its own
					} else if tagEnd > i && isVoidTag(input[i+1:tagEnd]) {
						// Void elements never get a closing tag
					} else {
						tagCount++
					}
				}
			}
		}
	}

	return tagCount > 0 || openPlaceholder
}

// isTagNameStart checks if a character can start a tag name.
func isTagNameStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isVoidTag reports whether the tag content starting a tag (name plus
// attributes) names an HTML void element.
func isVoidTag(tag string) bool {
	name := tag
	if i := strings.IndexAny(tag, " \t\n"); i >= 0 {
		name = tag[:i]
	}
	switch strings.ToLower(name) {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "source", "track", "wbr":
		return true
	}
	return false
}

// findTagEnd finds the position of the closing '>' for a tag starting at pos.
func findTagEnd(input string, pos int) int {
	inQuote := false
	quoteChar := byte(0)
	for i := pos + 1; i < len(input); i++ {
		ch := input[i]
		if inQuote {
			if ch == quoteChar {
				inQuote = false
			}
			continue
		}
		if ch == '"' || ch == '\'' {
			inQuote = true
			quoteChar = ch
			continue
		}
		if ch == '>' {
			return i
		}
	}
	return -1
}

func printError(out io.Writer, msg string) {
	io.WriteString(out, "Error: "+msg+"\n")
}
