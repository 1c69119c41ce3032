package session

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	coreconfig "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/config"
)

// FirestoreStore keeps one document per phone number in a collection.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// OpenFirestore initialises a firebase app and returns its Firestore client.
// Without a credentials file the application default credentials are used.
func OpenFirestore(ctx context.Context, cfg coreconfig.FirestoreConfig) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return client, nil
}

// NewFirestoreStore wraps client; collection defaults to "sessions".
func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	if collection == "" {
		collection = "sessions"
	}
	return &FirestoreStore{client: client, collection: collection}
}

func (f *FirestoreStore) doc(phone string) *firestore.DocumentRef {
	return f.client.Collection(f.collection).Doc(phone)
}

// Get reads and decodes the document for phone.
func (f *FirestoreStore) Get(ctx context.Context, phone string) (*Session, error) {
	snap, err := f.doc(phone).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("firestore get: %w", err)
	}
	var s Session
	if err := snap.DataTo(&s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// Save replaces the document so cleared selections disappear.
func (f *FirestoreStore) Save(ctx context.Context, s *Session) error {
	if _, err := f.doc(s.Phone).Set(ctx, s); err != nil {
		return fmt.Errorf("firestore set: %w", err)
	}
	return nil
}

// Delete removes the document for phone.
func (f *FirestoreStore) Delete(ctx context.Context, phone string) error {
	if _, err := f.doc(phone).Delete(ctx); err != nil {
		return fmt.Errorf("firestore delete: %w", err)
	}
	return nil
}
