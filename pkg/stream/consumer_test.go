package stream

import (
	"errors"
	"testing"

	"github.com/killallgit/parley/pkg/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedAll(c *Consumer, chunks ...string) {
	for _, chunk := range chunks {
		if !c.Feed([]byte(chunk)) {
			return
		}
	}
}

func TestConsumerAccumulation(t *testing.T) {
	t.Run("should accumulate chunks into the placeholder", func(t *testing.T) {
		var snapshots []string
		placeholder := chat.NewPlaceholderMessage()
		consumer := NewConsumer(placeholder, "OpenAI", func(msg chat.Message) {
			snapshots = append(snapshots, msg.Content)
		})

		feedAll(consumer, "He", "llo!")
		final := consumer.Finish()

		assert.Equal(t, chat.RoleAssistant, final.Role)
		assert.Equal(t, "Hello!", final.Content)
		assert.False(t, final.IsError)
		assert.Equal(t, placeholder.ID, final.ID)
		assert.Equal(t, StateFinishedNormal, consumer.State())
		assert.Equal(t, []string{"He", "Hello!", "Hello!"}, snapshots)
	})

	t.Run("should produce the same content for any chunk boundaries", func(t *testing.T) {
		content := "Hello, 世界! 🌍 done"
		raw := []byte(content)

		for split := 1; split < len(raw); split++ {
			consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", nil)
			require.True(t, consumer.Feed(raw[:split]))
			require.True(t, consumer.Feed(raw[split:]))
			final := consumer.Finish()

			assert.Equal(t, content, final.Content, "split at byte %d", split)
			assert.False(t, final.IsError)
		}
	})

	t.Run("should survive one byte per chunk", func(t *testing.T) {
		content := "héllo 世界"
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", nil)

		for _, b := range []byte(content) {
			require.True(t, consumer.Feed([]byte{b}))
		}
		final := consumer.Finish()

		assert.Equal(t, content, final.Content)
		assert.Equal(t, StateFinishedNormal, consumer.State())
	})

	t.Run("should hold back a split rune until it completes", func(t *testing.T) {
		var snapshots []string
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", func(msg chat.Message) {
			snapshots = append(snapshots, msg.Content)
		})

		world := []byte("世") // three bytes
		require.True(t, consumer.Feed(world[:1]))
		require.True(t, consumer.Feed(world[1:2]))
		require.True(t, consumer.Feed(world[2:]))

		// No partial rune is ever exposed.
		assert.Equal(t, []string{"世"}, snapshots)
	})

	t.Run("should flush held bytes once at finish", func(t *testing.T) {
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", nil)

		world := []byte("世")
		require.True(t, consumer.Feed(world[:2]))
		assert.Equal(t, "", consumer.Content())

		final := consumer.Finish()
		assert.Equal(t, string(world[:2]), final.Content)
		assert.Equal(t, StateFinishedNormal, consumer.State())
	})

	t.Run("should finish an empty stream with empty content", func(t *testing.T) {
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", nil)
		final := consumer.Finish()

		assert.Equal(t, "", final.Content)
		assert.False(t, final.IsError)
		assert.Equal(t, StateFinishedNormal, consumer.State())
	})
}

func TestConsumerErrorDetection(t *testing.T) {
	t.Run("should detect a single-chunk error envelope", func(t *testing.T) {
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", nil)

		assert.False(t, consumer.Feed([]byte(`{"error":"rate limited"}`)))

		final := consumer.Finish()
		assert.True(t, final.IsError)
		assert.Equal(t, "Error from OpenAI: rate limited", final.Content)
		assert.Equal(t, StateFinishedError, consumer.State())
	})

	t.Run("should detect an envelope fragmented one character per chunk", func(t *testing.T) {
		payload := `{"error":"X"}`
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "Gemini", nil)

		for i := 0; i < len(payload)-1; i++ {
			require.True(t, consumer.Feed([]byte{payload[i]}), "must stay undecided at byte %d", i)
			require.False(t, consumer.Done())
		}
		assert.False(t, consumer.Feed([]byte{payload[len(payload)-1]}))

		assert.Equal(t, StateErrorDetected, consumer.State())
		final := consumer.Finish()
		assert.Equal(t, "Error from Gemini: X", final.Content)
		assert.True(t, final.IsError)
	})

	t.Run("should show a forming envelope as provisional content", func(t *testing.T) {
		var snapshots []string
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", func(msg chat.Message) {
			snapshots = append(snapshots, msg.Content)
		})

		consumer.Feed([]byte(`{"err`))
		consumer.Feed([]byte(`or":"boom"}`))

		assert.Equal(t, []string{`{"err`, "Error from OpenAI: boom"}, snapshots)
	})

	t.Run("should never reclassify content that does not start with a brace", func(t *testing.T) {
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", nil)

		feedAll(consumer, "The payload is ", `{"error":"fake"}`, " as text")
		final := consumer.Finish()

		assert.False(t, final.IsError)
		assert.Equal(t, `The payload is {"error":"fake"} as text`, final.Content)
		assert.Equal(t, StateFinishedNormal, consumer.State())
	})

	t.Run("should treat a JSON object without an error key as content", func(t *testing.T) {
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", nil)

		feedAll(consumer, `{"ok":true}`)
		final := consumer.Finish()

		assert.False(t, final.IsError)
		assert.Equal(t, `{"ok":true}`, final.Content)
	})

	t.Run("should treat a null error field as content", func(t *testing.T) {
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", nil)

		feedAll(consumer, `{"error":null}`)
		final := consumer.Finish()

		assert.False(t, final.IsError)
		assert.Equal(t, `{"error":null}`, final.Content)
	})

	t.Run("should detect an envelope preceded by whitespace", func(t *testing.T) {
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", nil)

		feedAll(consumer, "  \n ", `{"error":"blocked"}`)
		final := consumer.Finish()

		assert.True(t, final.IsError)
		assert.Equal(t, "Error from OpenAI: blocked", final.Content)
	})

	t.Run("should ignore chunks after the error transition", func(t *testing.T) {
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", nil)

		consumer.Feed([]byte(`{"error":"done"}`))
		assert.False(t, consumer.Feed([]byte("late text")))

		final := consumer.Finish()
		assert.Equal(t, "Error from OpenAI: done", final.Content)
	})

	t.Run("should keep an incomplete envelope literal at end of stream", func(t *testing.T) {
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", nil)

		feedAll(consumer, `{"error":"cut off`)
		final := consumer.Finish()

		assert.False(t, final.IsError)
		assert.Equal(t, `{"error":"cut off`, final.Content)
		assert.Equal(t, StateFinishedNormal, consumer.State())
	})
}

func TestConsumerTransportFault(t *testing.T) {
	t.Run("should overwrite partial content with the generic network error", func(t *testing.T) {
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", nil)

		feedAll(consumer, "Hello, wo")
		final := consumer.Fail(errors.New("connection reset"))

		assert.True(t, final.IsError)
		assert.Equal(t, NetworkErrorText, final.Content)
		assert.NotContains(t, final.Content, "Hello, wo")
		assert.Equal(t, StateFinishedError, consumer.State())
		assert.EqualError(t, consumer.Err(), "connection reset")
	})

	t.Run("should fail before the first chunk", func(t *testing.T) {
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", nil)

		final := consumer.Fail(errors.New("dial tcp: refused"))

		assert.True(t, final.IsError)
		assert.Equal(t, NetworkErrorText, final.Content)
	})

	t.Run("should not disturb a finished stream", func(t *testing.T) {
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", nil)

		feedAll(consumer, "Hello!")
		consumer.Finish()
		final := consumer.Fail(errors.New("too late"))

		assert.False(t, final.IsError)
		assert.Equal(t, "Hello!", final.Content)
		assert.Equal(t, StateFinishedNormal, consumer.State())
	})

	t.Run("should not disturb a detected error", func(t *testing.T) {
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", nil)

		consumer.Feed([]byte(`{"error":"blocked"}`))
		final := consumer.Fail(errors.New("reset during teardown"))

		assert.True(t, final.IsError)
		assert.Equal(t, "Error from OpenAI: blocked", final.Content)
		assert.Equal(t, StateFinishedError, consumer.State())
	})
}

func TestConsumerHTTPError(t *testing.T) {
	t.Run("should prefer the JSON error field", func(t *testing.T) {
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", nil)

		final := consumer.FailHTTP("500 Internal Server Error", []byte(`{"error":"Missing API key."}`))

		assert.True(t, final.IsError)
		assert.Equal(t, "Missing API key.", final.Content)
		assert.Equal(t, StateFinishedHTTPError, consumer.State())
	})

	t.Run("should fall back to the plain body text", func(t *testing.T) {
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", nil)

		final := consumer.FailHTTP("502 Bad Gateway", []byte("upstream exploded"))

		assert.Equal(t, "upstream exploded", final.Content)
	})

	t.Run("should fall back to the status text for an empty body", func(t *testing.T) {
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", nil)

		final := consumer.FailHTTP("503 Service Unavailable", nil)

		assert.Equal(t, "503 Service Unavailable", final.Content)
	})

	t.Run("should be ignored once chunks have flowed", func(t *testing.T) {
		consumer := NewConsumer(chat.NewPlaceholderMessage(), "OpenAI", nil)

		consumer.Feed([]byte("streaming"))
		final := consumer.FailHTTP("500 Internal Server Error", nil)

		assert.False(t, final.IsError)
		assert.Equal(t, "streaming", final.Content)
		assert.Equal(t, StateAccumulating, consumer.State())
	})
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "awaiting-first-chunk", StateAwaitingFirstChunk.String())
	assert.Equal(t, "accumulating", StateAccumulating.String())
	assert.Equal(t, "error-detected", StateErrorDetected.String())
	assert.Equal(t, "finished-normal", StateFinishedNormal.String())
	assert.Equal(t, "finished-error", StateFinishedError.String())
	assert.Equal(t, "finished-http-error", StateFinishedHTTPError.String())
	assert.Equal(t, "unknown", State(99).String())
}
