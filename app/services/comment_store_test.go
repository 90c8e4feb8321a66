package services

import (
	"testing"
	"time"

	"commentbox/app/models"
	"commentbox/app/repositories"
	"commentbox/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = models.User{Name: "Alice", Avatar: "a.png"}
	bob   = models.User{Name: "Bob", Avatar: "b.png"}
)

// fixedClock starts at a known instant and advances one second per call.
func fixedClock() func() time.Time {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func newTestStore(t *testing.T) (*CommentStore, *mock.Store) {
	backend := mock.NewStore()
	store := NewCommentStore(backend)
	store.SetClock(fixedClock())
	require.NoError(t, store.Load())
	return store, backend
}

func TestPostComment(t *testing.T) {
	store, backend := newTestStore(t)

	t.Run("valid comment", func(t *testing.T) {
		comment, err := store.PostComment(alice, "  Hello  ")
		require.NoError(t, err)
		require.NotNil(t, comment)

		assert.Equal(t, "Hello", comment.Text)
		assert.Equal(t, alice, comment.Author)
		assert.Empty(t, comment.Reactions)
		assert.Empty(t, comment.Replies)
		assert.Equal(t, comment.CreatedAt.UnixMilli(), comment.ID)
		assert.Len(t, store.Comments(), 1)
		assert.Len(t, backend.WritesTo(repositories.CommentsKey), 1)
	})

	t.Run("blank text is ignored", func(t *testing.T) {
		for _, text := range []string{"", "   ", "\n\t"} {
			comment, err := store.PostComment(alice, text)
			assert.NoError(t, err)
			assert.Nil(t, comment)
		}
		assert.Len(t, store.Comments(), 1)
		assert.Len(t, backend.WritesTo(repositories.CommentsKey), 1)
	})

	t.Run("appends in post order", func(t *testing.T) {
		second, err := store.PostComment(bob, "Second")
		require.NoError(t, err)

		comments := store.Comments()
		require.Len(t, comments, 2)
		assert.Equal(t, "Hello", comments[0].Text)
		assert.Equal(t, second.ID, comments[1].ID)
	})
}

func TestAuthorSnapshot(t *testing.T) {
	store, _ := newTestStore(t)

	author := models.User{Name: "Alice", Avatar: "a.png"}
	comment, err := store.PostComment(author, "Hello")
	require.NoError(t, err)

	author.Name = "Alicia"
	author.Avatar = "new.png"

	assert.Equal(t, "Alice", store.FindComment(comment.ID).Author.Name)
	assert.Equal(t, "a.png", store.FindComment(comment.ID).Author.Avatar)
}

func TestIDsAreUniqueWithinOneMillisecond(t *testing.T) {
	store, _ := newTestStore(t)
	instant := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return instant })

	first, err := store.PostComment(alice, "one")
	require.NoError(t, err)
	second, err := store.PostComment(alice, "two")
	require.NoError(t, err)
	reply, err := store.PostReply(first.ID, "three", bob)
	require.NoError(t, err)

	assert.Equal(t, instant.UnixMilli(), first.ID)
	assert.Equal(t, first.ID+1, second.ID)
	assert.Equal(t, second.ID+1, reply.ID)
}

func TestPostReply(t *testing.T) {
	store, backend := newTestStore(t)
	parent, err := store.PostComment(alice, "Hello")
	require.NoError(t, err)

	t.Run("reply to top-level comment", func(t *testing.T) {
		reply, err := store.PostReply(parent.ID, "Hi back", bob)
		require.NoError(t, err)
		require.NotNil(t, reply)

		assert.Equal(t, "Hi back", reply.Text)
		assert.Equal(t, bob, reply.Author)
		assert.Empty(t, reply.Replies)
		assert.Empty(t, reply.Reactions)
		assert.Len(t, store.FindComment(parent.ID).Replies, 1)
		assert.Len(t, store.Comments(), 1)
	})

	writes := len(backend.Writes())

	t.Run("unknown parent", func(t *testing.T) {
		reply, err := store.PostReply(12345, "Hi", bob)
		assert.NoError(t, err)
		assert.Nil(t, reply)
	})

	t.Run("blank text", func(t *testing.T) {
		reply, err := store.PostReply(parent.ID, "   ", bob)
		assert.NoError(t, err)
		assert.Nil(t, reply)
	})

	t.Run("reply to a reply", func(t *testing.T) {
		existing := store.FindComment(parent.ID).Replies[0]
		reply, err := store.PostReply(existing.ID, "nested", alice)
		assert.NoError(t, err)
		assert.Nil(t, reply)
		assert.Empty(t, store.FindComment(existing.ID).Replies)
	})

	assert.Len(t, backend.Writes(), writes)
}

func TestAddReaction(t *testing.T) {
	store, backend := newTestStore(t)
	comment, err := store.PostComment(alice, "Hello")
	require.NoError(t, err)
	reply, err := store.PostReply(comment.ID, "Hi back", bob)
	require.NoError(t, err)

	t.Run("same emoji twice", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			ok, err := store.AddReaction(comment.ID, "👍")
			require.NoError(t, err)
			assert.True(t, ok)
		}
		assert.Equal(t, 2, store.FindComment(comment.ID).Reactions["👍"])
	})

	t.Run("independent counters", func(t *testing.T) {
		ok, err := store.AddReaction(comment.ID, "❤️")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, models.Reactions{"👍": 2, "❤️": 1}, store.FindComment(comment.ID).Reactions)
	})

	t.Run("reaction on a reply", func(t *testing.T) {
		ok, err := store.AddReaction(reply.ID, "🥳")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, store.FindComment(reply.ID).Reactions["🥳"])
		assert.NotContains(t, store.FindComment(comment.ID).Reactions, "🥳")
	})

	t.Run("arbitrary emoji", func(t *testing.T) {
		ok, err := store.AddReaction(comment.ID, "🦀")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	writes := len(backend.Writes())

	t.Run("unknown id", func(t *testing.T) {
		ok, err := store.AddReaction(999, "👍")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty emoji", func(t *testing.T) {
		ok, err := store.AddReaction(comment.ID, "")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	assert.Len(t, backend.Writes(), writes)
}

func TestFindComment(t *testing.T) {
	store, _ := newTestStore(t)
	first, _ := store.PostComment(alice, "first")
	second, _ := store.PostComment(bob, "second")
	reply, _ := store.PostReply(first.ID, "reply", bob)

	assert.Equal(t, first.ID, store.FindComment(first.ID).ID)
	assert.Equal(t, second.ID, store.FindComment(second.ID).ID)
	assert.Equal(t, "reply", store.FindComment(reply.ID).Text)
	assert.Nil(t, store.FindComment(42))

	t.Run("returns the live comment", func(t *testing.T) {
		store.FindComment(first.ID).Text = "edited"
		assert.Equal(t, "edited", store.FindComment(first.ID).Text)
	})
}

func TestWalk(t *testing.T) {
	store, _ := newTestStore(t)
	first, _ := store.PostComment(alice, "first")
	second, _ := store.PostComment(bob, "second")
	r1, _ := store.PostReply(first.ID, "r1", bob)
	r2, _ := store.PostReply(second.ID, "r2", alice)
	r3, _ := store.PostReply(first.ID, "r3", alice)

	t.Run("pre-order", func(t *testing.T) {
		var ids []int64
		var depths []int
		store.Walk(func(c *models.Comment, depth int) bool {
			ids = append(ids, c.ID)
			depths = append(depths, depth)
			return true
		})
		assert.Equal(t, []int64{first.ID, r1.ID, r3.ID, second.ID, r2.ID}, ids)
		assert.Equal(t, []int{0, 1, 1, 0, 1}, depths)
	})

	t.Run("stops early", func(t *testing.T) {
		visited := 0
		store.Walk(func(c *models.Comment, depth int) bool {
			visited++
			return c.ID != r1.ID
		})
		assert.Equal(t, 2, visited)
	})

	assert.Equal(t, 5, store.Len())
}

func TestEditAuthorName(t *testing.T) {
	store, backend := newTestStore(t)
	first, _ := store.PostComment(alice, "first")
	second, _ := store.PostComment(alice, "second")
	reply, _ := store.PostReply(first.ID, "reply", alice)

	t.Run("renames one snapshot", func(t *testing.T) {
		ok, err := store.EditAuthorName(first.ID, "  Alicia ")
		require.NoError(t, err)
		assert.True(t, ok)

		assert.Equal(t, "Alicia", store.FindComment(first.ID).Author.Name)
		assert.Equal(t, "Alice", store.FindComment(second.ID).Author.Name)
		assert.Equal(t, "Alice", store.FindComment(reply.ID).Author.Name)
		assert.Equal(t, "a.png", store.FindComment(first.ID).Author.Avatar)
	})

	t.Run("renames a reply", func(t *testing.T) {
		ok, err := store.EditAuthorName(reply.ID, "Al")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Al", store.FindComment(reply.ID).Author.Name)
	})

	writes := len(backend.Writes())

	t.Run("blank name", func(t *testing.T) {
		ok, err := store.EditAuthorName(first.ID, "  ")
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "Alicia", store.FindComment(first.ID).Author.Name)
	})

	t.Run("unknown id", func(t *testing.T) {
		ok, err := store.EditAuthorName(7, "Nobody")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	assert.Len(t, backend.Writes(), writes)
}

func TestClear(t *testing.T) {
	store, backend := newTestStore(t)
	comment, _ := store.PostComment(alice, "Hello")
	reply, _ := store.PostReply(comment.ID, "Hi", bob)

	require.NoError(t, store.Clear())

	assert.Nil(t, store.FindComment(comment.ID))
	assert.Nil(t, store.FindComment(reply.ID))
	assert.Empty(t, store.Comments())

	stored, err := backend.Get(repositories.CommentsKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", stored)

	t.Run("ids are not reused", func(t *testing.T) {
		store.SetClock(func() time.Time { return comment.CreatedAt })
		next, err := store.PostComment(alice, "again")
		require.NoError(t, err)
		assert.Greater(t, next.ID, reply.ID)
	})
}

func TestPersistOrder(t *testing.T) {
	store, backend := newTestStore(t)

	comment, _ := store.PostComment(alice, "Hello")
	_, _ = store.PostReply(comment.ID, "Hi", bob)
	_, _ = store.AddReaction(comment.ID, "👍")

	writes := backend.WritesTo(repositories.CommentsKey)
	require.Len(t, writes, 3)

	first, err := repositories.DecodeTree(writes[0])
	require.NoError(t, err)
	assert.Empty(t, first[0].Replies)
	assert.Empty(t, first[0].Reactions)

	second, err := repositories.DecodeTree(writes[1])
	require.NoError(t, err)
	assert.Len(t, second[0].Replies, 1)
	assert.Empty(t, second[0].Reactions)

	third, err := repositories.DecodeTree(writes[2])
	require.NoError(t, err)
	assert.Equal(t, 1, third[0].Reactions["👍"])
}

func TestLoad(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		store, backend := newTestStore(t)
		comment, _ := store.PostComment(alice, "Hello")
		_, _ = store.PostReply(comment.ID, "Hi back", bob)
		_, _ = store.AddReaction(comment.ID, "👍")

		reloaded := NewCommentStore(backend)
		require.NoError(t, reloaded.Load())
		assert.Equal(t, store.Comments(), reloaded.Comments())
	})

	t.Run("missing data", func(t *testing.T) {
		store := NewCommentStore(mock.NewStore())
		assert.NoError(t, store.Load())
		assert.Empty(t, store.Comments())
	})

	corrupt := []string{`{not json`, `{"id":1}`, `"hello"`, ``}
	for _, data := range corrupt {
		t.Run("corrupt "+data, func(t *testing.T) {
			backend := mock.NewStore()
			backend.Seed(repositories.CommentsKey, data)
			store := NewCommentStore(backend)
			assert.NoError(t, store.Load())
			assert.Empty(t, store.Comments())
		})
	}

	t.Run("null", func(t *testing.T) {
		backend := mock.NewStore()
		backend.Seed(repositories.CommentsKey, "null")
		store := NewCommentStore(backend)
		assert.NoError(t, store.Load())
		assert.Empty(t, store.Comments())
	})

	t.Run("drops malformed entries", func(t *testing.T) {
		backend := mock.NewStore()
		backend.Seed(repositories.CommentsKey, `[
			{"id":1,"author":{"name":"A"},"text":"ok","time":"2024-01-01T00:00:00Z","reactions":{},"replies":[
				{"id":2,"author":{"name":"B"},"text":"reply","time":"2024-01-01T00:00:01Z","reactions":{},"replies":[
					{"id":3,"text":"too deep","time":"2024-01-01T00:00:02Z","reactions":{}}
				]},
				{"id":4,"text":"","time":"2024-01-01T00:00:03Z","reactions":{}}
			]},
			{"id":1,"text":"duplicate","time":"2024-01-01T00:00:04Z","reactions":{}},
			null,
			{"id":5,"text":"no reactions","time":"2024-01-01T00:00:05Z"}
		]`)
		store := NewCommentStore(backend)
		require.NoError(t, store.Load())

		comments := store.Comments()
		require.Len(t, comments, 2)
		assert.Equal(t, int64(1), comments[0].ID)
		require.Len(t, comments[0].Replies, 1)
		assert.Equal(t, int64(2), comments[0].Replies[0].ID)
		assert.Empty(t, comments[0].Replies[0].Replies)
		assert.Equal(t, int64(5), comments[1].ID)
		assert.NotNil(t, comments[1].Reactions)
		assert.Nil(t, store.FindComment(3))
	})

	t.Run("seeds the id generator", func(t *testing.T) {
		backend := mock.NewStore()
		backend.Seed(repositories.CommentsKey, `[{"id":9999999999999,"text":"future","time":"2286-11-20T17:46:39.999Z","reactions":{}}]`)
		store := NewCommentStore(backend)
		store.SetClock(fixedClock())
		require.NoError(t, store.Load())

		comment, err := store.PostComment(alice, "now")
		require.NoError(t, err)
		assert.Equal(t, int64(10000000000000), comment.ID)
	})

	t.Run("store failure", func(t *testing.T) {
		backend := mock.NewStore()
		backend.Fail(true)
		store := NewCommentStore(backend)
		assert.ErrorIs(t, store.Load(), mock.ErrUnavailable)
	})

	t.Run("store failure keeps the current tree", func(t *testing.T) {
		store, backend := newTestStore(t)
		comment, err := store.PostComment(alice, "Hello")
		require.NoError(t, err)

		backend.Fail(true)
		assert.ErrorIs(t, store.Load(), mock.ErrUnavailable)
		backend.Fail(false)

		require.NotNil(t, store.FindComment(comment.ID))
		ok, err := store.AddReaction(comment.ID, "👍")
		require.NoError(t, err)
		assert.True(t, ok)

		writes := backend.WritesTo(repositories.CommentsKey)
		assert.Contains(t, writes[len(writes)-1], `"text":"Hello"`)
	})
}

func TestSaveFailure(t *testing.T) {
	store, backend := newTestStore(t)
	backend.Fail(true)

	comment, err := store.PostComment(alice, "Hello")
	assert.ErrorIs(t, err, mock.ErrUnavailable)
	require.NotNil(t, comment)
	assert.NotNil(t, store.FindComment(comment.ID))
}

func TestExampleScenario(t *testing.T) {
	backend, err := repositories.NewInMemoryBadgerStore()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	store := NewCommentStore(backend)
	require.NoError(t, store.Load())

	t1, err := store.PostComment(models.User{Name: "Alice", Avatar: "a.png"}, "Hello")
	require.NoError(t, err)
	assert.Len(t, store.Comments(), 1)

	_, err = store.PostReply(t1.ID, "Hi back", models.User{Name: "Alice", Avatar: "b.png"})
	require.NoError(t, err)
	assert.Len(t, store.FindComment(t1.ID).Replies, 1)

	ok, err := store.AddReaction(t1.ID, "👍")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, store.FindComment(t1.ID).Reactions["👍"])

	reloaded := NewCommentStore(backend)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, store.Comments(), reloaded.Comments())
}
