package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resumepdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Run the HTTP service")
	fmt.Fprintln(w, "  generate   Render a stored resume, publish it and link it back")
	fmt.Fprintln(w, "  derive     Create a resume for an application from the base resume")
	fmt.Fprintln(w, "  render     Render a local markdown file to PDF")
	fmt.Fprintln(w, "  doctor     Check Chrome, environment and credentials")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'resumepdf help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default $RESUMEPDF_CONFIG)")
	fmt.Fprintln(w, "      --env-file <path>     Dotenv file (default .env, missing is fine)")
	fmt.Fprintln(w, "  -q, --quiet               Only log errors")
	fmt.Fprintln(w, "  -v, --verbose             Log every pipeline stage")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resumepdf serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the HTTP service:")
	fmt.Fprintln(w, "  GET  /health")
	fmt.Fprintln(w, "  POST /generate-pdf                    {\"markdown\": \"...\"} -> application/pdf")
	fmt.Fprintln(w, "  POST /api/resumes/{id}/pdf            render, publish and link a stored resume")
	fmt.Fprintln(w, "  POST /api/applications/{id}/resume    derive a resume from the base resume")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -p, --port <n>            Listen port (default 3000)")
	fmt.Fprintln(w, "      --render-only         Serve /generate-pdf only; no credentials needed")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resumepdf generate <record-id> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Fetch the resume markdown from Notion, render it, upload the PDF")
	fmt.Fprintln(w, "and attach its URL to the record. Prints the public URL.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -t, --timeout <d>         Render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printDeriveUsage prints usage for the derive command.
func printDeriveUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resumepdf derive <application-id> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Copy the newest base resume into a new record and relate it to the")
	fmt.Fprintln(w, "application. Prints the new record id.")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resumepdf render [input.md] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a local markdown file without touching Notion or the bucket.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -i, --input <path>        Markdown file, \"-\" for stdin")
	fmt.Fprintln(w, "  -o, --output <path>       PDF path (default: input with .pdf)")
	fmt.Fprintln(w, "      --html                Also write the rendered HTML")
	fmt.Fprintln(w, "  -l, --layout <name>       compact, table, absolute, grid")
	fmt.Fprintln(w, "      --css <path>          Extra CSS appended after the layout")
	fmt.Fprintln(w, "  -t, --timeout <d>         Render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resumepdf doctor [--json] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, the container environment, the temp directory and the")
	fmt.Fprintln(w, "Notion and artifact store settings. Exits 1 when something blocks rendering.")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// runHelp prints help for a command, or the main usage.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "generate":
		printGenerateUsage(env.Stdout)
	case "derive":
		printDeriveUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version", "help":
		printUsage(env.Stdout)
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
