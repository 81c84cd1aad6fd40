package chat_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pryce-dev/vantage/pkg/chat"
)

var _ = Describe("Messages", func() {
	Describe("NewUserMessage", func() {
		It("should create a user message with trimmed content", func() {
			msg := chat.NewUserMessage("  show me revenue  ")

			Expect(msg.Role).To(Equal(chat.RoleUser))
			Expect(msg.Content).To(Equal("show me revenue"))
			Expect(msg.ID).ToNot(BeEmpty())
			Expect(msg.IsStreaming).To(BeFalse())
			Expect(msg.CreatedAt).To(BeTemporally("~", time.Now(), time.Second))
		})

		It("should assign a unique id per message", func() {
			a := chat.NewUserMessage("a")
			b := chat.NewUserMessage("b")
			Expect(a.ID).ToNot(Equal(b.ID))
		})
	})

	Describe("NewStreamingMessage", func() {
		It("should create a streaming assistant message seeded with content", func() {
			msg := chat.NewStreamingMessage("Jon ")

			Expect(msg.Role).To(Equal(chat.RoleAssistant))
			Expect(msg.Content).To(Equal("Jon "))
			Expect(msg.IsStreaming).To(BeTrue())
		})
	})

	Describe("NewFlaggedMessage", func() {
		It("should create an assistant entry with the flag prefix", func() {
			msg := chat.NewFlaggedMessage("something went wrong")

			Expect(msg.Role).To(Equal(chat.RoleAssistant))
			Expect(msg.IsFlagged()).To(BeTrue())
			Expect(msg.Content).To(HavePrefix(chat.FlagPrefix))
		})
	})

	Describe("IsEmpty", func() {
		It("should treat whitespace-only content as empty", func() {
			Expect(chat.NewAssistantMessage("  \t ").IsEmpty()).To(BeTrue())
			Expect(chat.NewAssistantMessage("x").IsEmpty()).To(BeFalse())
		})
	})
})

var _ = Describe("ConversationRef", func() {
	It("should be provisional until a server id is assigned", func() {
		Expect(chat.ConversationRef{}.Provisional()).To(BeTrue())
		Expect(chat.ConversationRef{ID: 42}.Provisional()).To(BeFalse())
	})
})
