package views

import (
	"sort"
	"time"

	"commentbox/app/helpers"
	"commentbox/app/models"
)

// PickerEmoji is the reaction set offered by the widget's emoji picker, in
// display order.
var PickerEmoji = []string{"👍", "❤️", "😄", "😲", "😡", "🥳"}

// ReactionCount is one emoji counter, ready to render.
type ReactionCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// CommentView is the render-ready form of a comment or reply.
type CommentView struct {
	ID         int64           `json:"id"`
	AuthorName string          `json:"authorName"`
	Avatar     string          `json:"avatar"`
	Text       string          `json:"text"`
	Time       string          `json:"time"`
	TimeAgo    string          `json:"timeAgo"`
	Depth      int             `json:"depth"`
	CanReply   bool            `json:"canReply"`
	Reactions  []ReactionCount `json:"reactions"`
	Replies    []CommentView   `json:"replies,omitempty"`
}

// Build converts the comment tree into view models with relative times
// measured against now.
func Build(comments []*models.Comment, now time.Time) []CommentView {
	return build(comments, 0, now)
}

func build(comments []*models.Comment, depth int, now time.Time) []CommentView {
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		v := CommentView{
			ID:         c.ID,
			AuthorName: c.Author.Name,
			Avatar:     c.Author.Avatar,
			Text:       c.Text,
			Time:       c.CreatedAt.Format(time.RFC3339),
			TimeAgo:    helpers.TimeAgo(c.CreatedAt, now),
			Depth:      depth,
			CanReply:   depth == 0,
			Reactions:  SortReactions(c.Reactions),
		}
		if len(c.Replies) > 0 {
			v.Replies = build(c.Replies, depth+1, now)
		}
		views = append(views, v)
	}
	return views
}

// SortReactions lists counters with the picker emoji first, in picker
// order, followed by any other emoji in lexical order.
func SortReactions(reactions models.Reactions) []ReactionCount {
	counts := make([]ReactionCount, 0, len(reactions))
	for _, emoji := range PickerEmoji {
		if n, ok := reactions[emoji]; ok {
			counts = append(counts, ReactionCount{Emoji: emoji, Count: n})
		}
	}

	var others []string
	for emoji := range reactions {
		if pickerRank(emoji) < 0 {
			others = append(others, emoji)
		}
	}
	sort.Strings(others)
	for _, emoji := range others {
		counts = append(counts, ReactionCount{Emoji: emoji, Count: reactions[emoji]})
	}
	return counts
}

func pickerRank(emoji string) int {
	for i, e := range PickerEmoji {
		if e == emoji {
			return i
		}
	}
	return -1
}
