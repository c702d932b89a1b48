package interfaces

import (
	"SafeTube/models"
	"context"

	"firebase.google.com/go/v4/auth"
)

// CatalogClient looks up videos in the external catalog. Safe search is applied upstream.
type CatalogClient interface {
	Search(ctx context.Context, query, ageBracket string) ([]models.CatalogItem, error)
	Details(ctx context.Context, videoID string) (models.VideoDescriptor, error)
}

// ParentTokenVerifier checks a parent's identity token. *auth.Client satisfies it.
type ParentTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}
