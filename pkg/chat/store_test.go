package chat_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pryce-dev/vantage/pkg/chat"
)

var _ = Describe("Store", func() {
	var store *chat.Store

	BeforeEach(func() {
		store = chat.NewStore()
	})

	Describe("Append and Messages", func() {
		It("should keep messages in arrival order", func() {
			store.Append(chat.NewUserMessage("one"))
			store.Append(chat.NewAssistantMessage("two"))

			msgs := store.Messages()
			Expect(msgs).To(HaveLen(2))
			Expect(msgs[0].Content).To(Equal("one"))
			Expect(msgs[1].Content).To(Equal("two"))
		})

		It("should return a copy that does not alias internal state", func() {
			store.Append(chat.NewUserMessage("one"))
			msgs := store.Messages()
			msgs[0].Content = "mutated"
			Expect(store.Messages()[0].Content).To(Equal("one"))
		})
	})

	Describe("Update", func() {
		It("should mutate the targeted message in place", func() {
			msg := chat.NewStreamingMessage("partial")
			store.Append(msg)

			ok := store.Update(msg.ID, func(m *chat.Message) {
				m.Content = "partial plus more"
			})

			Expect(ok).To(BeTrue())
			Expect(store.Messages()[0].Content).To(Equal("partial plus more"))
		})

		It("should report a missing message", func() {
			Expect(store.Update("nope", func(m *chat.Message) {})).To(BeFalse())
		})
	})

	Describe("LastStreamingAssistant", func() {
		It("should find the most recent streaming assistant message", func() {
			store.Append(chat.NewAssistantMessage("done"))
			streaming := chat.NewStreamingMessage("live")
			store.Append(streaming)
			store.Append(chat.NewUserMessage("next question"))

			found, ok := store.LastStreamingAssistant()
			Expect(ok).To(BeTrue())
			Expect(found.ID).To(Equal(streaming.ID))
		})

		It("should report absence when nothing is streaming", func() {
			store.Append(chat.NewAssistantMessage("done"))
			_, ok := store.LastStreamingAssistant()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Clear", func() {
		It("should empty the working set but keep the conversation reference", func() {
			store.Append(chat.NewUserMessage("q"))
			store.SetConversation(chat.ConversationRef{ID: 7, Title: "t"})

			store.Clear()

			Expect(store.Len()).To(BeZero())
			ref, ok := store.Conversation()
			Expect(ok).To(BeTrue())
			Expect(ref.ID).To(BeEquivalentTo(7))
		})
	})

	Describe("SetConversation", func() {
		It("should replace the reference wholesale", func() {
			store.SetConversation(chat.ConversationRef{ID: 0, Title: "placeholder"})
			store.SetConversation(chat.ConversationRef{ID: 99})

			ref, ok := store.Conversation()
			Expect(ok).To(BeTrue())
			Expect(ref.ID).To(BeEquivalentTo(99))
			Expect(ref.Title).To(BeEmpty())
		})
	})

	Describe("Subscribe", func() {
		It("should notify on every mutation until unsubscribed", func() {
			count := 0
			unsubscribe := store.Subscribe(func() { count++ })

			store.Append(chat.NewUserMessage("a"))
			store.SetTyping(true)
			Expect(count).To(Equal(2))

			unsubscribe()
			store.Append(chat.NewUserMessage("b"))
			Expect(count).To(Equal(2))
		})

		It("should not notify when typing state is unchanged", func() {
			count := 0
			store.Subscribe(func() { count++ })

			store.SetTyping(false)
			Expect(count).To(BeZero())
		})
	})
})
