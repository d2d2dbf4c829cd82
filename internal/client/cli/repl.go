package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. *App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	SwitchRun(ctx context.Context, run string) error
	SwitchKind(ctx context.Context, kind string) error
	List(ctx context.Context) error
	Documents(ctx context.Context) error
	Upload(ctx context.Context, paths []string) error
	Attach(ctx context.Context, paths []string) error
	Fetch(ctx context.Context, name, dest string) error
	Delete(ctx context.Context, name string) error
	Comments(ctx context.Context) error
	ImageStorage(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: login, help, exit"
	helpLoggedIn  = "Available commands: run <name>, kind <kind>, (l)ist, documents, upload <paths...>, " +
		"attach <paths...>, fetch <name> <dest>, delete <name>, comments, imagestorage, login, exit"
)

// runREPL reads commands line by line and dispatches them to a until EOF,
// "exit" or "quit". Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("labdrive %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			err = a.Login(ctx)

		case "run":
			if len(args) != 1 {
				printlnFn("Usage: run <name>")
				continue
			}
			err = a.SwitchRun(ctx, args[0])

		case "kind":
			if len(args) != 1 {
				printlnFn("Usage: kind <raw_data|processed_data>")
				continue
			}
			err = a.SwitchKind(ctx, args[0])

		case "l", "list":
			err = a.List(ctx)

		case "documents":
			err = a.Documents(ctx)

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <paths...>")
				continue
			}
			err = a.Upload(ctx, args)

		case "attach":
			if len(args) == 0 {
				printlnFn("Usage: attach <paths...>")
				continue
			}
			err = a.Attach(ctx, args)

		case "fetch":
			if len(args) != 2 {
				printlnFn("Usage: fetch <name> <dest>")
				continue
			}
			err = a.Fetch(ctx, args[0], args[1])

		case "delete":
			if len(args) != 1 {
				printlnFn("Usage: delete <name>")
				continue
			}
			err = a.Delete(ctx, args[0])

		case "comments":
			err = a.Comments(ctx)

		case "imagestorage":
			err = a.ImageStorage(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
