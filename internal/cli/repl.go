package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const helpText = "Available commands: list [q], files [q], addtext, addfile <path>, get <id> <dest>, deltext <id>, delfile <id>, stats, exit"

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests can provide a lightweight stub.
type execIface interface {
	ListTexts(ctx context.Context, query string) error
	ListFiles(ctx context.Context, query string) error
	AddText(ctx context.Context) error
	AddFile(ctx context.Context, path string) error
	Get(ctx context.Context, id, dest string) error
	DeleteText(ctx context.Context, id string) error
	DeleteFile(ctx context.Context, id string) error
	Stats(ctx context.Context) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit". prompt
// is where the "lanshare> " prompt goes; out receives command output.
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, prompt, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		line, err := GetSimpleText(reader, "lanshare> ", prompt)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(out, helpText)
			continue

		case "l", "list":
			err = a.ListTexts(ctx, strings.Join(args, " "))

		case "files":
			err = a.ListFiles(ctx, strings.Join(args, " "))

		case "addtext":
			err = a.AddText(ctx)

		case "addfile":
			if len(args) != 1 {
				fmt.Fprintln(out, "Usage: addfile <path>")
				continue
			}
			err = a.AddFile(ctx, args[0])

		case "get":
			if len(args) != 2 {
				fmt.Fprintln(out, "Usage: get <id> <dest>")
				continue
			}
			err = a.Get(ctx, args[0], args[1])

		case "deltext", "delfile":
			if len(args) != 1 {
				fmt.Fprintf(out, "Usage: %s <id>\n", cmd)
				continue
			}
			if cmd == "deltext" {
				err = a.DeleteText(ctx, args[0])
			} else {
				err = a.DeleteFile(ctx, args[0])
			}

		case "stats":
			err = a.Stats(ctx)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
			continue
		}

		if err != nil {
			fmt.Fprintln(out, "Error:", err)
		}
	}
}
