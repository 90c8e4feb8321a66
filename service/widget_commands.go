package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"commentbox/app/avatars"
	"commentbox/app/services"
	"commentbox/app/views"

	"github.com/dustin/go-humanize"
)

// RunWidgetCommand runs one comment command against the configured store
// and returns an exit code.
func RunWidgetCommand(cmd string, args []string) int {
	comments, identity, closeFn, err := openWidget()
	if err != nil {
		fmt.Printf("Failed to open comments: %v\n", err)
		return 1
	}
	defer closeFn()

	switch cmd {
	case "list":
		printTree(views.Build(comments.Comments(), time.Now()), "")
		if comments.Len() == 0 {
			fmt.Println("No comments yet")
		}
		return 0

	case "post":
		if len(args) < 1 {
			fmt.Println("Error: comment text required")
			return 1
		}
		comment, err := comments.PostComment(identity.Current(), strings.Join(args, " "))
		if comment == nil {
			fmt.Println("Error: comment text cannot be empty")
			return 1
		}
		if err != nil {
			fmt.Printf("Failed to save comment: %v\n", err)
			return 1
		}
		fmt.Printf("Posted comment %d\n", comment.ID)
		return 0

	case "reply":
		avatar, rest := extractFlag(args, "--avatar")
		if len(rest) < 2 {
			fmt.Println("Error: usage: reply <id> [--avatar <ref>] <text>")
			return 1
		}
		id, ok := parseCommentID(rest[0])
		if !ok {
			return 1
		}
		reply, err := comments.PostReply(id, strings.Join(rest[1:], " "), identity.ReplyAuthor(avatar))
		if reply == nil {
			fmt.Printf("Error: cannot reply to %d (unknown comment, a reply, or empty text)\n", id)
			return 1
		}
		if err != nil {
			fmt.Printf("Failed to save reply: %v\n", err)
			return 1
		}
		fmt.Printf("Posted reply %d\n", reply.ID)
		return 0

	case "react":
		if len(args) < 2 {
			fmt.Println("Error: usage: react <id> <emoji>")
			return 1
		}
		if args[1] == "" {
			fmt.Println("Error: emoji cannot be empty")
			return 1
		}
		id, ok := parseCommentID(args[0])
		if !ok {
			return 1
		}
		ok, err := comments.AddReaction(id, args[1])
		if !ok {
			fmt.Printf("Error: comment %d not found\n", id)
			return 1
		}
		if err != nil {
			fmt.Printf("Failed to save reaction: %v\n", err)
			return 1
		}
		fmt.Printf("Reacted %s to %d\n", args[1], id)
		return 0

	case "rename":
		if len(args) < 2 {
			fmt.Println("Error: usage: rename <id> <name>")
			return 1
		}
		id, ok := parseCommentID(args[0])
		if !ok {
			return 1
		}
		ok, err := comments.EditAuthorName(id, strings.Join(args[1:], " "))
		if !ok {
			fmt.Printf("Error: cannot rename author of %d (unknown comment or empty name)\n", id)
			return 1
		}
		if err != nil {
			fmt.Printf("Failed to save name: %v\n", err)
			return 1
		}
		fmt.Printf("Renamed author of %d\n", id)
		return 0

	case "clear":
		if !confirm("Are you sure you want to clear all comments?") {
			fmt.Println("Operation cancelled")
			return 1
		}
		if err := comments.Clear(); err != nil {
			fmt.Printf("Failed to clear comments: %v\n", err)
			return 1
		}
		fmt.Println("All comments cleared")
		return 0

	case "user":
		if len(args) == 0 {
			user := identity.Current()
			fmt.Printf("Name:   %s\n", user.Name)
			fmt.Printf("Avatar: %s\n", describeAvatar(user.Avatar))
			return 0
		}
		if len(args) < 2 {
			fmt.Println("Error: usage: user [name <name> | avatar <file-or-url>]")
			return 1
		}
		return updateUser(identity, args[0], args[1])

	default:
		fmt.Printf("Unknown command: %s\n", cmd)
		return 1
	}
}

func updateUser(identity *services.IdentityService, field, value string) int {
	switch field {
	case "name":
		if err := identity.SetName(value); err != nil {
			fmt.Printf("Failed to save user: %v\n", err)
			return 1
		}
		fmt.Printf("Name set to %q\n", value)
		return 0
	case "avatar":
		ref := value
		if !strings.Contains(value, "://") {
			uri, err := avatars.NewEncoder(cfg.MaxAvatarBytes).FromFile(value)
			if err != nil {
				fmt.Printf("Failed to read avatar: %v\n", err)
				return 1
			}
			ref = uri
		}
		if err := identity.SetAvatar(ref); err != nil {
			fmt.Printf("Failed to save user: %v\n", err)
			return 1
		}
		fmt.Printf("Avatar set to %s\n", describeAvatar(ref))
		return 0
	default:
		fmt.Printf("Unknown user field: %s\n", field)
		return 1
	}
}

// extractFlag removes "name value" or "name=value" from args and returns
// the value with the remaining arguments.
func extractFlag(args []string, name string) (string, []string) {
	var value string
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == name && i+1 < len(args):
			value = args[i+1]
			i++
		case strings.HasPrefix(args[i], name+"="):
			value = strings.TrimPrefix(args[i], name+"=")
		default:
			rest = append(rest, args[i])
		}
	}
	return value, rest
}

func parseCommentID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		fmt.Printf("Error: invalid comment ID: %s\n", s)
		return 0, false
	}
	return id, true
}

func describeAvatar(ref string) string {
	if avatars.IsDataURI(ref) {
		mime := strings.TrimPrefix(strings.SplitN(ref, ";", 2)[0], "data:")
		return fmt.Sprintf("embedded %s (%s)", mime, humanize.Bytes(uint64(len(ref))))
	}
	return ref
}

func printTree(tree []views.CommentView, indent string) {
	for _, c := range tree {
		name := c.AuthorName
		if name == "" {
			name = "(anonymous)"
		}
		fmt.Printf("%s[%d] %s · %s\n", indent, c.ID, name, c.TimeAgo)
		fmt.Printf("%s  %s\n", indent, c.Text)
		if len(c.Reactions) > 0 {
			parts := make([]string, 0, len(c.Reactions))
			for _, r := range c.Reactions {
				parts = append(parts, fmt.Sprintf("%s %d", r.Emoji, r.Count))
			}
			fmt.Printf("%s  %s\n", indent, strings.Join(parts, "  "))
		}
		printTree(c.Replies, indent+"    ")
	}
}
