package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pandeptwidyaop/linkprefs/internal/preferences"
	apperrors "github.com/pandeptwidyaop/linkprefs/pkg/errors"
	"github.com/pandeptwidyaop/linkprefs/pkg/logger"
)

const (
	preferencesPath = "/api/users/me/preferences"
	checkPath       = "/api/users/me/link_previews/check"
	versionPath     = "/api/version"
)

// Config holds the remote server connection settings.
type Config struct {
	ServerURL string
	Token     string
	Timeout   time.Duration
}

// RemoteStore reads and writes preferences through a linkprefs server.
type RemoteStore struct {
	http *resty.Client
}

// apiError is the server's error body.
type apiError struct {
	Error string `json:"error"`
}

// PreviewCheck is the server's answer to a link preview check.
type PreviewCheck struct {
	URL           string `json:"url"`
	Allowed       bool   `json:"allowed"`
	MatchedDomain string `json:"matched_domain"`
}

// NewRemoteStore creates a client for the server at cfg.ServerURL.
func NewRemoteStore(cfg Config) *RemoteStore {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.ServerURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		c.SetAuthToken(cfg.Token)
	}

	return &RemoteStore{http: c}
}

// SavePreferences sends the batch to the server. Any failure is a
// SaveFailed error; when the server explained itself its message is kept.
func (s *RemoteStore) SavePreferences(ctx context.Context, userID string, prefs []preferences.Preference) error {
	var apiErr apiError
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(prefs).
		SetError(&apiErr).
		Put(preferencesPath)
	if err != nil {
		logger.WarnEvent().Err(err).Str("user_id", userID).Msg("Preference save request failed")
		return apperrors.SaveFailed("", err)
	}
	if resp.IsError() {
		return apperrors.SaveFailed(apiErr.Error, fmt.Errorf("server returned %s", resp.Status()))
	}

	logger.DebugEvent().Str("user_id", userID).Int("count", len(prefs)).Msg("Preferences saved remotely")
	return nil
}

// GetMyPreferences fetches the current user's preferences. The server
// derives the user from the token; userID is used for logging only.
func (s *RemoteStore) GetMyPreferences(ctx context.Context, userID string) (preferences.Mapping, error) {
	var mapping preferences.Mapping
	var apiErr apiError
	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&mapping).
		SetError(&apiErr).
		Get(preferencesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch preferences: %w", err)
	}
	if resp.IsError() {
		return nil, responseError("fetch preferences", resp, apiErr)
	}

	if mapping == nil {
		mapping = preferences.Mapping{}
	}
	logger.DebugEvent().Str("user_id", userID).Int("count", len(mapping)).Msg("Preferences fetched")
	return mapping, nil
}

// CheckPreview asks the server whether rawURL would get a preview.
func (s *RemoteStore) CheckPreview(ctx context.Context, rawURL string) (*PreviewCheck, error) {
	var check PreviewCheck
	var apiErr apiError
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("url", rawURL).
		SetResult(&check).
		SetError(&apiErr).
		Get(checkPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check preview: %w", err)
	}
	if resp.IsError() {
		return nil, responseError("check preview", resp, apiErr)
	}
	return &check, nil
}

func responseError(op string, resp *resty.Response, apiErr apiError) error {
	msg := apiErr.Error
	if msg == "" {
		msg = strings.TrimSpace(resp.String())
	}
	return apperrors.NewAppError("remote_error", msg, fmt.Errorf("failed to %s: server returned %s", op, resp.Status()))
}
