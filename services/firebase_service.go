package services

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FirebaseClients bundles the Firebase clients the service uses. Either may be nil when
// Firebase is not configured.
type FirebaseClients struct {
	Auth      *auth.Client
	Messaging *messaging.Client
}

// NewFirebaseClients initializes the Firebase app from a service account file. An empty
// path returns empty clients and no error.
func NewFirebaseClients(ctx context.Context, credentialsPath string) (FirebaseClients, error) {
	if credentialsPath == "" {
		return FirebaseClients{}, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return FirebaseClients{}, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return FirebaseClients{}, fmt.Errorf("error initializing Firebase auth: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return FirebaseClients{}, fmt.Errorf("error initializing FCM client: %w", err)
	}

	return FirebaseClients{Auth: authClient, Messaging: messagingClient}, nil
}
