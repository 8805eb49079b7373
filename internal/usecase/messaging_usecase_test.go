package usecase

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renaix/internal/domain/entity"
	"renaix/pkg/errors"
)

func TestDeriveThreadKey(t *testing.T) {
	// Both participants derive the same key regardless of order.
	assert.Equal(t, DeriveThreadKey("alice", "bob", "p1"), DeriveThreadKey("bob", "alice", "p1"))

	// Different products split into different threads.
	assert.NotEqual(t, DeriveThreadKey("alice", "bob", "p1"), DeriveThreadKey("alice", "bob", "p2"))

	// A product-scoped thread differs from the bare pair thread.
	assert.NotEqual(t, DeriveThreadKey("alice", "bob", "p1"), DeriveThreadKey("alice", "bob", ""))
}

func TestSendMessage(t *testing.T) {
	env := newTestEnv()
	env.seedUser("alice", "user")
	env.seedUser("bob", "user")
	ctx := context.Background()

	product := env.seedProduct("bob", entity.SaleStateAvailable, 100)

	result, err := env.messaging.SendMessage(ctx, "alice", SendMessageInput{
		RecipientID: "bob",
		ProductID:   product.ID,
		Body:        "Is this still for sale?",
	})
	require.NoError(t, err)

	message := result.Message
	assert.Equal(t, DeriveThreadKey("alice", "bob", product.ID), message.ThreadKey)
	assert.Equal(t, entity.MessageKindText, message.Kind)
	assert.False(t, message.Read)

	require.Len(t, result.Events, 1)
	assert.Equal(t, entity.EventMessageReceived, result.Events[0].Type)
	assert.Equal(t, "bob", result.Events[0].RecipientID)
}

func TestSendMessagePreviewKeepsRunesIntact(t *testing.T) {
	env := newTestEnv()
	env.seedUser("alice", "user")
	env.seedUser("bob", "user")
	ctx := context.Background()

	body := strings.Repeat("ü", 100)

	result, err := env.messaging.SendMessage(ctx, "alice", SendMessageInput{
		RecipientID: "bob",
		Body:        body,
	})
	require.NoError(t, err)

	require.Len(t, result.Events, 1)
	got, ok := result.Events[0].Payload["preview"].(string)
	require.True(t, ok)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("ü", 80), got)
}

func TestSendMessageValidation(t *testing.T) {
	env := newTestEnv()
	env.seedUser("alice", "user")
	env.seedUser("bob", "user")
	ctx := context.Background()

	_, err := env.messaging.SendMessage(ctx, "alice", SendMessageInput{RecipientID: "alice", Body: "hi"})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = env.messaging.SendMessage(ctx, "alice", SendMessageInput{RecipientID: "bob", Body: "   "})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = env.messaging.SendMessage(ctx, "alice", SendMessageInput{RecipientID: "ghost", Body: "hi"})
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSendMessageContinuesLatestThread(t *testing.T) {
	env := newTestEnv()
	env.seedUser("alice", "user")
	env.seedUser("bob", "user")
	ctx := context.Background()

	product := env.seedProduct("bob", entity.SaleStateAvailable, 100)

	first, err := env.messaging.SendMessage(ctx, "alice", SendMessageInput{
		RecipientID: "bob",
		ProductID:   product.ID,
		Body:        "Is this still for sale?",
	})
	require.NoError(t, err)

	// A follow-up without a product lands in the same conversation.
	followUp, err := env.messaging.SendMessage(ctx, "bob", SendMessageInput{
		RecipientID: "alice",
		Body:        "Yes, still here",
	})
	require.NoError(t, err)
	assert.Equal(t, first.Message.ThreadKey, followUp.Message.ThreadKey)

	// Without any history a bare pair thread starts fresh.
	env.seedUser("carol", "user")
	fresh, err := env.messaging.SendMessage(ctx, "alice", SendMessageInput{
		RecipientID: "carol",
		Body:        "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, DeriveThreadKey("alice", "carol", ""), fresh.Message.ThreadKey)
}

func TestOfferChain(t *testing.T) {
	env := newTestEnv()
	env.seedUser("buyer", "user")
	env.seedUser("seller", "user")
	ctx := context.Background()

	product := env.seedProduct("seller", entity.SaleStateAvailable, 200)

	offer, err := env.messaging.SendOffer(ctx, "buyer", SendOfferInput{
		RecipientID:  "seller",
		ProductID:    product.ID,
		OfferedPrice: 150,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MessageKindOffer, offer.Message.Kind)
	assert.Equal(t, 150.0, offer.Message.OfferedPrice)
	assert.Equal(t, 200.0, offer.Message.OriginalPrice)

	counterPrice := 180.0
	counter, err := env.messaging.RespondToOffer(ctx, "seller", RespondToOfferInput{
		ReplyToID:    offer.Message.ID,
		Kind:         entity.MessageKindCounterOffer,
		CounterPrice: &counterPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, offer.Message.ThreadKey, counter.Message.ThreadKey)
	assert.Equal(t, offer.Message.ID, counter.Message.ReplyToID)
	assert.Equal(t, 180.0, counter.Message.OfferedPrice)
	// The original listing price survives down the chain.
	assert.Equal(t, 200.0, counter.Message.OriginalPrice)

	accepted, err := env.messaging.RespondToOffer(ctx, "buyer", RespondToOfferInput{
		ReplyToID: counter.Message.ID,
		Kind:      entity.MessageKindOfferAccepted,
	})
	require.NoError(t, err)
	assert.Equal(t, counter.Message.ID, accepted.Message.ReplyToID)
	assert.Equal(t, 180.0, accepted.Message.OfferedPrice)
}

func TestRespondToOfferRules(t *testing.T) {
	env := newTestEnv()
	env.seedUser("buyer", "user")
	env.seedUser("seller", "user")
	ctx := context.Background()

	product := env.seedProduct("seller", entity.SaleStateAvailable, 200)
	other := env.seedProduct("seller", entity.SaleStateAvailable, 300)

	offer, err := env.messaging.SendOffer(ctx, "buyer", SendOfferInput{
		RecipientID:  "seller",
		ProductID:    product.ID,
		OfferedPrice: 150,
	})
	require.NoError(t, err)

	// The sender cannot answer their own offer.
	_, err = env.messaging.RespondToOffer(ctx, "buyer", RespondToOfferInput{
		ReplyToID: offer.Message.ID,
		Kind:      entity.MessageKindOfferRejected,
	})
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))

	// Answering about a different product crosses threads.
	_, err = env.messaging.RespondToOffer(ctx, "seller", RespondToOfferInput{
		ReplyToID: offer.Message.ID,
		Kind:      entity.MessageKindOfferRejected,
		ProductID: other.ID,
	})
	assert.True(t, errors.Is(err, "CROSS_THREAD_REFERENCE"))

	// A text message cannot be answered as an offer.
	text, err := env.messaging.SendMessage(ctx, "buyer", SendMessageInput{
		RecipientID: "seller",
		ProductID:   product.ID,
		Body:        "hello",
	})
	require.NoError(t, err)
	_, err = env.messaging.RespondToOffer(ctx, "seller", RespondToOfferInput{
		ReplyToID: text.Message.ID,
		Kind:      entity.MessageKindOfferAccepted,
	})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	// A counter offer needs a price.
	_, err = env.messaging.RespondToOffer(ctx, "seller", RespondToOfferInput{
		ReplyToID: offer.Message.ID,
		Kind:      entity.MessageKindCounterOffer,
	})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestMarkReadMonotonic(t *testing.T) {
	env := newTestEnv()
	env.seedUser("alice", "user")
	env.seedUser("bob", "user")
	ctx := context.Background()

	sent, err := env.messaging.SendMessage(ctx, "alice", SendMessageInput{RecipientID: "bob", Body: "hi"})
	require.NoError(t, err)

	// Only the recipient can mark it.
	_, err = env.messaging.MarkRead(ctx, "alice", sent.Message.ID)
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))

	read, err := env.messaging.MarkRead(ctx, "bob", sent.Message.ID)
	require.NoError(t, err)
	require.NotNil(t, read.ReadAt)
	firstReadAt := *read.ReadAt

	// Marking again keeps the original read time.
	again, err := env.messaging.MarkRead(ctx, "bob", sent.Message.ID)
	require.NoError(t, err)
	require.NotNil(t, again.ReadAt)
	assert.Equal(t, firstReadAt, *again.ReadAt)

	// Unread resets, and is idempotent too.
	unread, err := env.messaging.MarkUnread(ctx, "bob", sent.Message.ID)
	require.NoError(t, err)
	assert.False(t, unread.Read)
	assert.Nil(t, unread.ReadAt)

	unread, err = env.messaging.MarkUnread(ctx, "bob", sent.Message.ID)
	require.NoError(t, err)
	assert.False(t, unread.Read)

	count, err := env.messaging.UnreadCount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSendMessageRateLimited(t *testing.T) {
	env := newTestEnv()
	env.seedUser("alice", "user")
	env.seedUser("bob", "user")
	env.messaging = NewMessagingUseCase(env.messages, env.products, env.users, denyAllLimiter{})
	ctx := context.Background()

	_, err := env.messaging.SendMessage(ctx, "alice", SendMessageInput{RecipientID: "bob", Body: "hi"})
	assert.True(t, errors.Is(err, "TOO_MANY_REQUESTS"))
}

func TestListConversationOrdering(t *testing.T) {
	env := newTestEnv()
	env.seedUser("alice", "user")
	env.seedUser("bob", "user")
	ctx := context.Background()

	product := env.seedProduct("bob", entity.SaleStateAvailable, 100)

	for _, body := range []string{"one", "two", "three"} {
		_, err := env.messaging.SendMessage(ctx, "alice", SendMessageInput{
			RecipientID: "bob",
			ProductID:   product.ID,
			Body:        body,
		})
		require.NoError(t, err)
	}

	messages, total, err := env.messaging.ListConversation(ctx, "bob", "alice", product.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, messages, 3)
	assert.Equal(t, "one", messages[0].Body)
	assert.Equal(t, "three", messages[2].Body)
}
