package chat_test

import (
	"github.com/killallgit/parley/pkg/chat"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Conversation", func() {
	Describe("NewConversation", func() {
		It("should create an empty conversation with model", func() {
			conv := chat.NewConversation("gpt-4o-mini")

			Expect(conv.Model).To(Equal("gpt-4o-mini"))
			Expect(chat.GetMessages(conv)).To(BeEmpty())
			Expect(chat.IsEmpty(conv)).To(BeTrue())
		})
	})

	Describe("AddMessage", func() {
		It("should append without mutating the original", func() {
			conv := chat.NewConversation("gpt-4o-mini")
			updated := chat.AddMessage(conv, chat.NewUserMessage("Hi"))

			Expect(chat.GetMessageCount(conv)).To(Equal(0))
			Expect(chat.GetMessageCount(updated)).To(Equal(1))
		})

		It("should preserve turn order", func() {
			conv := chat.NewConversation("gpt-4o-mini")
			conv = chat.AddMessage(conv, chat.NewUserMessage("first"))
			conv = chat.AddMessage(conv, chat.NewAssistantMessage("second"))
			conv = chat.AddMessage(conv, chat.NewUserMessage("third"))

			messages := chat.GetMessages(conv)
			Expect(messages).To(HaveLen(3))
			Expect(messages[0].Content).To(Equal("first"))
			Expect(messages[1].Content).To(Equal("second"))
			Expect(messages[2].Content).To(Equal("third"))
		})
	})

	Describe("GetLastMessage", func() {
		It("should return false for an empty conversation", func() {
			conv := chat.NewConversation("gpt-4o-mini")

			_, found := chat.GetLastMessage(conv)
			Expect(found).To(BeFalse())
		})

		It("should return the most recent message", func() {
			conv := chat.NewConversation("gpt-4o-mini")
			conv = chat.AddMessage(conv, chat.NewUserMessage("Hi"))
			conv = chat.AddMessage(conv, chat.NewAssistantMessage("Hello!"))

			last, found := chat.GetLastMessage(conv)
			Expect(found).To(BeTrue())
			Expect(last.Content).To(Equal("Hello!"))
		})
	})

	Describe("GetLastUserMessage", func() {
		It("should skip assistant turns", func() {
			conv := chat.NewConversation("gpt-4o-mini")
			conv = chat.AddMessage(conv, chat.NewUserMessage("question"))
			conv = chat.AddMessage(conv, chat.NewAssistantMessage("answer"))

			last, found := chat.GetLastUserMessage(conv)
			Expect(found).To(BeTrue())
			Expect(last.Content).To(Equal("question"))
		})
	})

	Describe("Validate", func() {
		It("should reject an empty conversation", func() {
			conv := chat.NewConversation("gpt-4o-mini")

			Expect(chat.Validate(conv)).To(MatchError(chat.ErrEmptyConversation))
		})

		It("should reject unknown roles", func() {
			conv := chat.NewConversation("gpt-4o-mini")
			conv = chat.AddMessage(conv, chat.Message{Role: "system", Content: "be brief"})
			conv = chat.AddMessage(conv, chat.NewUserMessage("Hi"))

			Expect(chat.Validate(conv)).To(MatchError(chat.ErrUnknownRole))
		})

		It("should reject a conversation not ending with the user", func() {
			conv := chat.NewConversation("gpt-4o-mini")
			conv = chat.AddMessage(conv, chat.NewUserMessage("Hi"))
			conv = chat.AddMessage(conv, chat.NewAssistantMessage("Hello!"))

			Expect(chat.Validate(conv)).To(MatchError(chat.ErrLastNotUser))
		})

		It("should accept alternating turns ending with the user", func() {
			conv := chat.NewConversation("gpt-4o-mini")
			conv = chat.AddMessage(conv, chat.NewUserMessage("Hi"))
			conv = chat.AddMessage(conv, chat.NewAssistantMessage("Hello!"))
			conv = chat.AddMessage(conv, chat.NewUserMessage("How are you?"))

			Expect(chat.Validate(conv)).To(Succeed())
		})
	})

	Describe("WithModel", func() {
		It("should switch the model without touching messages", func() {
			conv := chat.NewConversation("gpt-4o-mini")
			conv = chat.AddMessage(conv, chat.NewUserMessage("Hi"))

			switched := chat.WithModel(conv, "gemini-1.5-flash")
			Expect(switched.Model).To(Equal("gemini-1.5-flash"))
			Expect(chat.GetMessageCount(switched)).To(Equal(1))
		})
	})
})
