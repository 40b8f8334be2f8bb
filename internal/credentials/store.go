package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/naipofo/librucmd/internal/logger"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const clientID = "59"

var ErrDecode = errors.New("credentials: decode error")

// AuthData is the token pair kept in the cache file. The refresh token is
// stored but never used.
type AuthData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (a AuthData) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  a.AccessToken,
		RefreshToken: a.RefreshToken,
		TokenType:    "Bearer",
	}
}

// Secrets are the three values the operator copies from the provider's
// device pairing screen.
type Secrets struct {
	Secret string
	Code   string
	PIN    string
}

type SecretProvider interface {
	Secrets(ctx context.Context) (Secrets, error)
}

type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("credentials: token endpoint returned status %d", e.StatusCode)
}

type Store struct {
	path       string
	tokenURL   string
	provider   SecretProvider
	httpClient *http.Client
	log        zerolog.Logger
}

func NewStore(path, tokenURL string, provider SecretProvider, timeout time.Duration) *Store {
	return &Store{
		path:       path,
		tokenURL:   tokenURL,
		provider:   provider,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Get(),
	}
}

// Load returns the cached token pair, running the bootstrap exchange first
// when no cache file exists yet.
func (s *Store) Load(ctx context.Context) (AuthData, error) {
	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		s.log.Debug().Str("path", s.path).Msg("using cached token")
		return decodeAuth(data)
	case !errors.Is(err, fs.ErrNotExist):
		return AuthData{}, fmt.Errorf("failed to read token cache %q: %w", s.path, err)
	}

	s.log.Info().Str("path", s.path).Msg("no token cache, starting bootstrap exchange")
	raw, err := s.exchange(ctx)
	if err != nil {
		return AuthData{}, err
	}
	auth, err := decodeAuth(raw)
	if err != nil {
		return AuthData{}, err
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return AuthData{}, fmt.Errorf("failed to write token cache %q: %w", s.path, err)
	}
	s.log.Info().Str("path", s.path).Msg("token cache written")
	return auth, nil
}

func (s *Store) exchange(ctx context.Context) ([]byte, error) {
	secrets, err := s.provider.Secrets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect bootstrap secrets: %w", err)
	}

	form := url.Values{
		"grant_type":                   {"implicit_grant"},
		"client_id":                    {clientID},
		"secret":                       {secrets.Secret},
		"code":                         {secrets.Code},
		"pin":                          {secrets.PIN},
		"librus_rules_accepted":        {"true"},
		"librus_mobile_rules_accepted": {"true"},
		"librus_long_term_token":       {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func decodeAuth(data []byte) (AuthData, error) {
	var auth AuthData
	if err := json.Unmarshal(data, &auth); err != nil {
		return AuthData{}, fmt.Errorf("%w: token data: %v", ErrDecode, err)
	}
	if auth.AccessToken == "" {
		return AuthData{}, fmt.Errorf("%w: token data has no access_token", ErrDecode)
	}
	return auth, nil
}
