package main

import (
	"fmt"
	"os"
	"strings"

	"commentbox/service"
)

const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches the command line to a subcommand.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	args := os.Args[2:]
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("commentbox version %s\n", CliVersion)
	case "serve":
		exit(service.RunAppServer(args))
	case "db":
		exit(service.HandleCommand(args))
	case "list", "post", "reply", "react", "rename", "clear", "user":
		exit(service.RunWidgetCommand(cmd, args))
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		exit(1)
	}
}

func printHelp() {
	helpText := `Usage: commentbox <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve [--addr <addr>]          Serve the comment API over HTTP.
  list                           Print the comment thread.
  post <text>                    Post a comment as the current user.
  reply <id> [--avatar <ref>] <text>
                                 Reply to a top-level comment.
  react <id> <emoji>             Add a reaction to a comment or reply.
  rename <id> <name>             Change the author name shown on one comment.
  clear                          Delete every comment (asks for confirmation).
  user [name|avatar <value>]     Show or change the current user.
  db <init|clean|backup|restore> Manage the data store.

Environment:
  COMMENTBOX_BACKEND             badger (default) or sqlite
  COMMENTBOX_DATA                data store path
  COMMENTBOX_ADDR                listen address for serve (default :8080)
  COMMENTBOX_MAX_AVATAR          largest accepted avatar in bytes
`
	fmt.Println(helpText)
}
