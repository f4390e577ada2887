package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jobgenie/backend/config"
	"github.com/jobgenie/backend/models"
)

const (
	usersCollection      = "users"
	searchRunsCollection = "searchRuns"
)

// ErrUserNotFound is returned when the user document does not exist
var ErrUserNotFound = errors.New("user not found")

// FirestoreClient wraps Firestore operations: the credit ledger on user
// documents and the search run history
type FirestoreClient struct {
	client *firestore.Client
}

// NewFirestoreClient creates a new Firestore client
func NewFirestoreClient(ctx context.Context, cfg *config.Config) (*FirestoreClient, error) {
	client, err := firestore.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &FirestoreClient{client: client}, nil
}

// Close closes the Firestore client
func (f *FirestoreClient) Close() error {
	return f.client.Close()
}

// GetUser retrieves a user by document ID
func (f *FirestoreClient) GetUser(ctx context.Context, userID string) (*models.User, error) {
	doc, err := f.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to parse user data: %w", err)
	}

	user.ID = doc.Ref.ID
	return &user, nil
}

// HasCredits reports whether the user has a positive balance.
// A missing user has no credits.
func (f *FirestoreClient) HasCredits(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	user, err := f.GetUser(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.Credits > 0, nil
}

// Deduct atomically takes one credit. It returns false without writing when
// the balance is already zero or the user does not exist.
func (f *FirestoreClient) Deduct(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	ref := f.client.Collection(usersCollection).Doc(userID)
	deducted := false

	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		deducted = false

		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return nil
			}
			return err
		}

		credits, err := doc.DataAt("credits")
		if err != nil {
			return nil
		}
		balance, ok := credits.(int64)
		if !ok || balance <= 0 {
			return nil
		}

		deducted = true
		return tx.Update(ref, []firestore.Update{
			{Path: "credits", Value: firestore.Increment(-1)},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
	if err != nil {
		return false, fmt.Errorf("failed to deduct credit: %w", err)
	}
	return deducted, nil
}

// RecordRun appends a run to the history and sets run.ID
func (f *FirestoreClient) RecordRun(ctx context.Context, run *models.SearchRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	ref := f.client.Collection(searchRunsCollection).NewDoc()
	if _, err := ref.Set(ctx, run); err != nil {
		return fmt.Errorf("failed to record search run: %w", err)
	}

	run.ID = ref.ID
	return nil
}

// ListRuns returns the user's most recent runs, newest first
func (f *FirestoreClient) ListRuns(ctx context.Context, userID string, limit int) ([]models.SearchRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	iter := f.client.Collection(searchRunsCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	runs := []models.SearchRun{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query search runs: %w", err)
		}

		var run models.SearchRun
		if err := doc.DataTo(&run); err != nil {
			return nil, fmt.Errorf("failed to parse search run: %w", err)
		}
		run.ID = doc.Ref.ID
		runs = append(runs, run)
	}
	return runs, nil
}
