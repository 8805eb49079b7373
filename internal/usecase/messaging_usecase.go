package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"renaix/internal/domain/entity"
	"renaix/internal/domain/repository"
	"renaix/pkg/errors"
	"renaix/pkg/utils"
)

const maxMessageBodyLength = 2000

type MessagingUseCase struct {
	messageRepo repository.MessageRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	limiter     RateLimiter
}

func NewMessagingUseCase(
	messageRepo repository.MessageRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	limiter RateLimiter,
) *MessagingUseCase {
	return &MessagingUseCase{
		messageRepo: messageRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		limiter:     limiter,
	}
}

// DeriveThreadKey builds the key of the conversation between an unordered
// pair of users, optionally scoped to one product. The pair is sorted before
// hashing so both participants derive the same key.
func DeriveThreadKey(userA, userB, productID string) string {
	lo, hi := userA, userB
	if hi < lo {
		lo, hi = hi, lo
	}
	sum := sha256.Sum256([]byte(lo + "|" + hi + "|" + productID))
	return hex.EncodeToString(sum[:])
}

type SendMessageInput struct {
	RecipientID string
	ProductID   string
	Body        string
}

type MessageResult struct {
	Message *entity.Message
	Events  []entity.Event
}

func (uc *MessagingUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*MessageResult, error) {
	if allowed, wait := uc.limiter.Allow(senderID, "send_message"); !allowed {
		return nil, errors.TooManyRequests("You are sending messages too quickly", wait)
	}

	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, errors.BadRequest("Message body cannot be empty", nil)
	}
	if len(body) > maxMessageBodyLength {
		return nil, errors.BadRequest("Message body is too long", nil)
	}

	threadKey, err := uc.resolveThreadKey(ctx, senderID, input.RecipientID, input.ProductID)
	if err != nil {
		return nil, err
	}

	message := &entity.Message{
		ThreadKey:   threadKey,
		SenderID:    senderID,
		RecipientID: input.RecipientID,
		ProductID:   input.ProductID,
		Body:        body,
		Kind:        entity.MessageKindText,
		CreatedAt:   time.Now(),
	}

	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	events := []entity.Event{
		entity.NewEvent(entity.EventMessageReceived, message.RecipientID, map[string]interface{}{
			"message_id": message.ID,
			"thread_key": message.ThreadKey,
			"sender_id":  message.SenderID,
			"preview":    preview(message.Body),
		}),
	}

	return &MessageResult{Message: message, Events: events}, nil
}

type SendOfferInput struct {
	RecipientID  string
	ProductID    string
	OfferedPrice float64
	Body         string
}

// SendOffer opens a price negotiation on a product. The product price is
// snapshotted into the offer so later price edits do not rewrite history.
func (uc *MessagingUseCase) SendOffer(ctx context.Context, senderID string, input SendOfferInput) (*MessageResult, error) {
	if allowed, wait := uc.limiter.Allow(senderID, "send_offer"); !allowed {
		return nil, errors.TooManyRequests("You are sending offers too quickly", wait)
	}

	if input.ProductID == "" {
		return nil, errors.BadRequest("An offer must reference a product", nil)
	}
	if input.OfferedPrice <= 0 {
		return nil, errors.BadRequest("Offered price must be greater than zero", nil)
	}
	if senderID == input.RecipientID {
		return nil, errors.BadRequest("You cannot send an offer to yourself", nil)
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.userRepo.GetByID(ctx, input.RecipientID); err != nil {
		return nil, err
	}

	message := &entity.Message{
		ThreadKey:     DeriveThreadKey(senderID, input.RecipientID, input.ProductID),
		SenderID:      senderID,
		RecipientID:   input.RecipientID,
		ProductID:     input.ProductID,
		Body:          strings.TrimSpace(input.Body),
		Kind:          entity.MessageKindOffer,
		OfferedPrice:  input.OfferedPrice,
		OriginalPrice: product.Price,
		CreatedAt:     time.Now(),
	}

	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	events := []entity.Event{
		entity.NewEvent(entity.EventOfferReceived, message.RecipientID, map[string]interface{}{
			"message_id":    message.ID,
			"thread_key":    message.ThreadKey,
			"sender_id":     message.SenderID,
			"product_id":    message.ProductID,
			"offered_price": message.OfferedPrice,
		}),
	}

	return &MessageResult{Message: message, Events: events}, nil
}

type RespondToOfferInput struct {
	ReplyToID string
	// Kind must be offer_accepted, offer_rejected or counter_offer.
	Kind         entity.MessageKind
	CounterPrice *float64
	ProductID    string
	Body         string
}

// RespondToOffer answers an open offer with an acceptance, a rejection or a
// counter offer. The response lands in the same thread as the offer it
// answers; referencing an offer from another thread is rejected.
func (uc *MessagingUseCase) RespondToOffer(ctx context.Context, senderID string, input RespondToOfferInput) (*MessageResult, error) {
	if !input.Kind.IsOfferResponse() {
		return nil, errors.BadRequest("Invalid offer response kind", nil)
	}

	ref, err := uc.messageRepo.GetByID(ctx, input.ReplyToID)
	if err != nil {
		return nil, err
	}

	if !ref.Kind.IsOffer() {
		return nil, errors.BadRequest("The referenced message is not an offer", nil)
	}

	if ref.RecipientID != senderID {
		return nil, errors.Unauthorized("Only the offer recipient can respond to it", nil)
	}

	if input.ProductID != "" && DeriveThreadKey(ref.SenderID, ref.RecipientID, input.ProductID) != ref.ThreadKey {
		return nil, errors.CrossThreadReference()
	}

	message := &entity.Message{
		ThreadKey:   ref.ThreadKey,
		SenderID:    senderID,
		RecipientID: ref.SenderID,
		ProductID:   ref.ProductID,
		Body:        strings.TrimSpace(input.Body),
		Kind:        input.Kind,
		ReplyToID:   ref.ID,
		CreatedAt:   time.Now(),
	}

	switch input.Kind {
	case entity.MessageKindCounterOffer:
		if input.CounterPrice == nil || *input.CounterPrice <= 0 {
			return nil, errors.BadRequest("A counter offer needs a price greater than zero", nil)
		}
		message.OfferedPrice = *input.CounterPrice
		message.OriginalPrice = ref.OriginalPrice
	case entity.MessageKindOfferAccepted:
		message.OfferedPrice = ref.OfferedPrice
		message.OriginalPrice = ref.OriginalPrice
	}

	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	eventType := entity.EventOfferAnswered
	if input.Kind == entity.MessageKindCounterOffer {
		eventType = entity.EventOfferReceived
	}

	events := []entity.Event{
		entity.NewEvent(eventType, message.RecipientID, map[string]interface{}{
			"message_id":    message.ID,
			"thread_key":    message.ThreadKey,
			"sender_id":     message.SenderID,
			"kind":          string(message.Kind),
			"offered_price": message.OfferedPrice,
			"reply_to_id":   message.ReplyToID,
		}),
	}

	return &MessageResult{Message: message, Events: events}, nil
}

// MarkRead marks a received message as read. Reads are monotonic per message;
// marking an already-read message again keeps the original read time.
func (uc *MessagingUseCase) MarkRead(ctx context.Context, readerID, messageID string) (*entity.Message, error) {
	message, err := uc.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if message.RecipientID != readerID {
		return nil, errors.Unauthorized("Only the recipient can mark a message as read", nil)
	}

	if message.Read {
		return message, nil
	}

	now := time.Now()
	if err := uc.messageRepo.SetReadState(ctx, messageID, true, &now); err != nil {
		return nil, err
	}

	message.Read = true
	message.ReadAt = &now
	return message, nil
}

// MarkUnread flips a read message back to unread. Unread messages stay
// unchanged.
func (uc *MessagingUseCase) MarkUnread(ctx context.Context, readerID, messageID string) (*entity.Message, error) {
	message, err := uc.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if message.RecipientID != readerID {
		return nil, errors.Unauthorized("Only the recipient can mark a message as unread", nil)
	}

	if !message.Read {
		return message, nil
	}

	if err := uc.messageRepo.SetReadState(ctx, messageID, false, nil); err != nil {
		return nil, err
	}

	message.Read = false
	message.ReadAt = nil
	return message, nil
}

func (uc *MessagingUseCase) ListConversation(ctx context.Context, callerID, otherID, productID string, page, limit int) ([]*entity.Message, int64, error) {
	threadKey, err := uc.resolveThreadKey(ctx, callerID, otherID, productID)
	if err != nil {
		return nil, 0, err
	}

	pagination := utils.NewPaginationParams(page, limit)

	return uc.messageRepo.ListByThread(ctx, threadKey, pagination.PageSize, pagination.Offset)
}

func (uc *MessagingUseCase) ListThreads(ctx context.Context, callerID string, page, limit int) ([]*entity.Thread, int64, error) {
	pagination := utils.NewPaginationParams(page, limit)

	return uc.messageRepo.ListThreads(ctx, callerID, pagination.PageSize, pagination.Offset)
}

func (uc *MessagingUseCase) UnreadCount(ctx context.Context, callerID string) (int64, error) {
	return uc.messageRepo.CountUnread(ctx, callerID)
}

// resolveThreadKey picks the thread a message belongs to. Product-scoped
// messages always use the key derived from pair and product. Messages without
// a product continue the most recent conversation between the pair if one
// exists, so a chat that started about a product keeps its history.
func (uc *MessagingUseCase) resolveThreadKey(ctx context.Context, senderID, recipientID, productID string) (string, error) {
	if senderID == recipientID {
		return "", errors.BadRequest("You cannot message yourself", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, recipientID); err != nil {
		return "", err
	}

	if productID != "" {
		if _, err := uc.productRepo.GetByID(ctx, productID); err != nil {
			return "", err
		}
		return DeriveThreadKey(senderID, recipientID, productID), nil
	}

	key, err := uc.messageRepo.LatestThreadKeyBetween(ctx, senderID, recipientID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return DeriveThreadKey(senderID, recipientID, ""), nil
		}
		return "", err
	}
	return key, nil
}

// preview shortens the body for notification payloads, cutting on a rune
// boundary so multi-byte text stays valid.
func preview(body string) string {
	runes := []rune(body)
	if len(runes) <= 80 {
		return body
	}
	return string(runes[:80])
}
