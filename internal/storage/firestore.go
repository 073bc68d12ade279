package storage

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pauljones0/lotto-receipt-bot/internal/models"
)

const (
	firestoreCollection = "bot_state"
	firestoreDocumentID = "last_printed"
)

// stateDocument is the single Firestore document holding every game.
type stateDocument struct {
	Games map[string]models.GameState `firestore:"games"`
}

// FirestoreStore keeps the state in one Firestore document.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects to Firestore. credentialsFile is optional; when
// empty the default application credentials are used.
func NewFirestoreStore(ctx context.Context, projectID, credentialsFile string) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore.NewClient: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// Load reads the state document. A missing document means first run.
func (s *FirestoreStore) Load(ctx context.Context) (models.State, error) {
	docSnap, err := s.doc().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			slog.Warn("Firestore state document not found, assuming first run", "collection", firestoreCollection, "document", firestoreDocumentID)
			return models.State{}, nil
		}
		return nil, fmt.Errorf("failed to get state document from Firestore: %w", err)
	}
	if !docSnap.Exists() {
		return models.State{}, nil
	}

	var doc stateDocument
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Firestore state document: %w", err)
	}
	return fromDocument(doc), nil
}

// Save overwrites the state document.
func (s *FirestoreStore) Save(ctx context.Context, state models.State) error {
	if _, err := s.doc().Set(ctx, toDocument(state)); err != nil {
		return fmt.Errorf("failed to set state document in Firestore: %w", err)
	}
	slog.Debug("Saved Firestore state document", "games", len(state))
	return nil
}

func (s *FirestoreStore) doc() *firestore.DocumentRef {
	return s.client.Collection(firestoreCollection).Doc(firestoreDocumentID)
}

func toDocument(state models.State) stateDocument {
	doc := stateDocument{Games: make(map[string]models.GameState, len(state))}
	for game, gs := range state {
		if gs == nil {
			doc.Games[game] = models.GameState{}
			continue
		}
		doc.Games[game] = *gs
	}
	return doc
}

func fromDocument(doc stateDocument) models.State {
	state := make(models.State, len(doc.Games))
	for game, gs := range doc.Games {
		gs := gs
		state[game] = &gs
	}
	return state
}
