package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/jwt"
)

const (
	spreadsheetsScope = "https://www.googleapis.com/auth/spreadsheets"
	defaultTokenURL   = "https://oauth2.googleapis.com/token"
)

// serviceAccountKey is the subset of a Google service account JSON key file
// needed to mint access tokens.
type serviceAccountKey struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// serviceAccountTokenSource builds an OAuth2 token source from a service
// account credentials file, scoped to spreadsheet access.
func serviceAccountTokenSource(ctx context.Context, credentialsFile string) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("error reading credentials file: %w", err)
	}

	var key serviceAccountKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("error parsing credentials file: %w", err)
	}
	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, fmt.Errorf("credentials file %s is missing client_email or private_key", credentialsFile)
	}

	tokenURL := key.TokenURI
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}

	config := &jwt.Config{
		Email:      key.ClientEmail,
		PrivateKey: []byte(key.PrivateKey),
		Scopes:     []string{spreadsheetsScope},
		TokenURL:   tokenURL,
	}
	return config.TokenSource(ctx), nil
}
