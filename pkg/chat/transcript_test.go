package chat_test

import (
	"fmt"
	"sync"

	"github.com/killallgit/parley/pkg/chat"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Transcript", func() {
	var transcript *chat.Transcript

	BeforeEach(func() {
		transcript = chat.NewTranscript()
	})

	Describe("AppendPlaceholder", func() {
		It("should append an empty assistant message with an identifier", func() {
			placeholder := transcript.AppendPlaceholder()

			Expect(placeholder.ID).ToNot(BeEmpty())
			Expect(placeholder.Role).To(Equal(chat.RoleAssistant))
			Expect(placeholder.Content).To(Equal(""))
			Expect(transcript.Len()).To(Equal(1))
		})
	})

	Describe("SetContent", func() {
		It("should replace content by identifier, not position", func() {
			transcript.Append(chat.NewUserMessage("Hi"))
			placeholder := transcript.AppendPlaceholder()

			// Later appends must not confuse the lookup.
			transcript.Append(chat.NewUserMessage("another"))

			Expect(transcript.SetContent(placeholder.ID, "He")).To(BeTrue())
			Expect(transcript.SetContent(placeholder.ID, "Hello!")).To(BeTrue())

			got, found := transcript.Get(placeholder.ID)
			Expect(found).To(BeTrue())
			Expect(got.Content).To(Equal("Hello!"))
			Expect(got.IsError).To(BeFalse())
		})

		It("should return false for an unknown identifier", func() {
			Expect(transcript.SetContent("missing", "text")).To(BeFalse())
		})

		It("should refuse to update a message already marked as error", func() {
			placeholder := transcript.AppendPlaceholder()
			transcript.MarkError(placeholder.ID, "Error from OpenAI: rate limited")

			Expect(transcript.SetContent(placeholder.ID, "late chunk")).To(BeFalse())

			got, _ := transcript.Get(placeholder.ID)
			Expect(got.Content).To(Equal("Error from OpenAI: rate limited"))
			Expect(got.IsError).To(BeTrue())
		})
	})

	Describe("MarkError", func() {
		It("should overwrite partial content and set the flag", func() {
			placeholder := transcript.AppendPlaceholder()
			transcript.SetContent(placeholder.ID, "Hello, wo")

			Expect(transcript.MarkError(placeholder.ID, "A network error occurred, please try again.")).To(BeTrue())

			got, _ := transcript.Get(placeholder.ID)
			Expect(got.Content).To(Equal("A network error occurred, please try again."))
			Expect(got.IsError).To(BeTrue())
		})

		It("should return false for an unknown identifier", func() {
			Expect(transcript.MarkError("missing", "boom")).To(BeFalse())
		})
	})

	Describe("Messages", func() {
		It("should return a copy in turn order", func() {
			transcript.Append(chat.NewUserMessage("Hi"))
			transcript.AppendPlaceholder()

			messages := transcript.Messages()
			Expect(messages).To(HaveLen(2))
			Expect(messages[0].IsUser()).To(BeTrue())
			Expect(messages[1].IsAssistant()).To(BeTrue())

			messages[0] = chat.NewUserMessage("mutated")
			Expect(transcript.Messages()[0].Content).To(Equal("Hi"))
		})
	})

	Describe("concurrent access", func() {
		It("should serialize appends and updates", func() {
			placeholder := transcript.AppendPlaceholder()

			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func(n int) {
					defer wg.Done()
					transcript.SetContent(placeholder.ID, fmt.Sprintf("chunk %d", n))
					transcript.Append(chat.NewUserMessage(fmt.Sprintf("user %d", n)))
				}(i)
			}
			wg.Wait()

			Expect(transcript.Len()).To(Equal(11))
			got, found := transcript.Get(placeholder.ID)
			Expect(found).To(BeTrue())
			Expect(got.Content).To(HavePrefix("chunk "))
		})
	})
})
