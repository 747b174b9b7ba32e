// Command wordhtml converts Word documents to standalone HTML files.
//
// Usage:
//
//	wordhtml [flags] <file-or-dir>...
//	wordhtml serve [flags]
//	wordhtml version
package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	ctx, stop := notifyContext(context.Background())
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := "convert"
	if len(args) > 0 && isCommand(args[0]) {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "version":
		fmt.Fprintf(stdout, "wordhtml %s\n", Version)
		return ExitSuccess
	case "help":
		printUsage(stdout)
		return ExitSuccess
	case "serve":
		err = runServe(ctx, args, stderr)
	default:
		err = runConvert(ctx, args, stdout, stderr)
	}

	if err != nil {
		fmt.Fprintf(stderr, "wordhtml: %v\n", err)
	}
	return exitCodeFor(err)
}

func isCommand(s string) bool {
	switch s {
	case "convert", "serve", "version", "help":
		return true
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage:
  wordhtml [flags] <file-or-dir>...   convert .docx and .doc files to HTML
  wordhtml serve [flags]              run the conversion job API
  wordhtml version                    print the version

Run "wordhtml -h" or "wordhtml serve -h" for flags.
`)
}
