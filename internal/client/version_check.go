package client

import (
	"context"
	"fmt"

	versionpkg "github.com/pandeptwidyaop/linkprefs/internal/version"
	"github.com/pandeptwidyaop/linkprefs/pkg/logger"
)

// VersionMismatch contains information about client-server version differences.
type VersionMismatch struct {
	ClientVersion string
	ServerVersion string
	Mismatch      bool
}

// ServerVersion retrieves the server's version information.
func (s *RemoteStore) ServerVersion(ctx context.Context) (versionpkg.Info, error) {
	var info versionpkg.Info
	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&info).
		Get(versionPath)
	if err != nil {
		return versionpkg.Info{}, fmt.Errorf("failed to query server: %w", err)
	}
	if resp.IsError() {
		return versionpkg.Info{}, fmt.Errorf("server returned status %d", resp.StatusCode())
	}
	return info, nil
}

// CheckVersion queries server version and compares with client version.
func (s *RemoteStore) CheckVersion(ctx context.Context) (*VersionMismatch, error) {
	info, err := s.ServerVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get server version: %w", err)
	}

	vm := &VersionMismatch{
		ClientVersion: versionpkg.Version,
		ServerVersion: info.Version,
		Mismatch:      versionpkg.Version != info.Version,
	}
	if vm.Mismatch {
		logger.WithComponent("client").Warn().
			Str("client_version", vm.ClientVersion).
			Str("server_version", vm.ServerVersion).
			Msg("Version mismatch detected")
	}
	return vm, nil
}
