package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"renaix/internal/domain/entity"
	"renaix/internal/domain/repository"
	"renaix/pkg/errors"
)

type firestoreMessageRepository struct {
	client *firestore.Client
}

func NewFirestoreMessageRepository(client *firestore.Client) repository.MessageRepository {
	return &firestoreMessageRepository{
		client: client,
	}
}

// Create appends the message to its thread. The per-thread watermark document
// keeps creation timestamps strictly increasing within a thread even when
// writers race.
func (r *firestoreMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		doc := r.client.Collection("messages").NewDoc()
		message.ID = doc.ID
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		threadRef := r.client.Collection("threads").Doc(message.ThreadKey)

		var lastAt time.Time
		doc, err := tx.Get(threadRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if err == nil {
			if raw, ok := doc.Data()["lastMessageAt"].(time.Time); ok {
				lastAt = raw
			}
		}

		if !message.CreatedAt.After(lastAt) {
			message.CreatedAt = lastAt.Add(time.Millisecond)
		}

		if err := tx.Set(threadRef, map[string]interface{}{
			"key":           message.ThreadKey,
			"participants":  []string{message.SenderID, message.RecipientID},
			"productId":     message.ProductID,
			"lastMessage":   message.Body,
			"lastMessageAt": message.CreatedAt,
		}, firestore.MergeAll); err != nil {
			return err
		}

		return tx.Set(r.client.Collection("messages").Doc(message.ID), message)
	})
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreMessageRepository) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	doc, err := r.client.Collection("messages").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Message", err)
		}
		return nil, errors.Internal("Failed to get message", err)
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}

	return &message, nil
}

func (r *firestoreMessageRepository) ListByThread(ctx context.Context, threadKey string, limit, offset int) ([]*entity.Message, int64, error) {
	query := r.client.Collection("messages").Query.
		Where("threadKey", "==", threadKey).
		OrderBy("createdAt", firestore.Asc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count messages", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, 0, errors.Internal("Failed to parse message data", err)
		}
		messages = append(messages, &message)
	}

	return messages, total, nil
}

func (r *firestoreMessageRepository) ListThreads(ctx context.Context, userID string, limit, offset int) ([]*entity.Thread, int64, error) {
	query := r.client.Collection("threads").Query.
		Where("participants", "array-contains", userID).
		OrderBy("lastMessageAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count threads", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var threads []*entity.Thread

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list threads", err)
		}

		var thread entity.Thread
		if err := doc.DataTo(&thread); err != nil {
			return nil, 0, errors.Internal("Failed to parse thread data", err)
		}

		unread, err := r.countUnreadInThread(ctx, thread.Key, userID)
		if err != nil {
			return nil, 0, err
		}
		thread.Unread = unread

		threads = append(threads, &thread)
	}

	return threads, total, nil
}

func (r *firestoreMessageRepository) LatestThreadKeyBetween(ctx context.Context, userA, userB string) (string, error) {
	iter := r.client.Collection("threads").
		Where("participants", "array-contains", userA).
		OrderBy("lastMessageAt", firestore.Desc).
		Documents(ctx)

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", errors.Internal("Failed to query threads", err)
		}

		var thread entity.Thread
		if err := doc.DataTo(&thread); err != nil {
			continue
		}
		for _, participant := range thread.Participants {
			if participant == userB {
				return thread.Key, nil
			}
		}
	}

	return "", errors.NotFound("Thread", nil)
}

func (r *firestoreMessageRepository) SetReadState(ctx context.Context, id string, read bool, readAt *time.Time) error {
	_, err := r.client.Collection("messages").Doc(id).Update(ctx, []firestore.Update{
		{Path: "read", Value: read},
		{Path: "readAt", Value: readAt},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Message", err)
		}
		return errors.Internal("Failed to update message read state", err)
	}

	return nil
}

func (r *firestoreMessageRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	docs, err := r.client.Collection("messages").
		Where("recipientId", "==", userID).
		Where("read", "==", false).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count unread messages", err)
	}

	return int64(len(docs)), nil
}

func (r *firestoreMessageRepository) countUnreadInThread(ctx context.Context, threadKey, userID string) (int, error) {
	docs, err := r.client.Collection("messages").
		Where("threadKey", "==", threadKey).
		Where("recipientId", "==", userID).
		Where("read", "==", false).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count unread messages in thread", err)
	}

	return len(docs), nil
}
