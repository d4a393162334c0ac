// Package netsvc issues one-shot network and member operations against the
// Central API and returns mapped domain records.
//
// A Session is opened once per invocation and caches the API status. A
// NetworkContext captures the caller's permission snapshot for one network;
// permissions are never re-fetched, the controller remains authoritative for
// every mutating call.
package netsvc

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nsfzt/ztctl/internal/central"
	"github.com/nsfzt/ztctl/internal/mapper"
	"github.com/nsfzt/ztctl/internal/types"
)

// API is the subset of the Central client used by the service.
type API interface {
	GetStatus(ctx context.Context) (map[string]interface{}, error)
	GetNetwork(ctx context.Context, networkID string) (map[string]interface{}, error)
	ListMembers(ctx context.Context, networkID string) ([]interface{}, error)
	GetMember(ctx context.Context, networkID, memberID string) (map[string]interface{}, error)
	UpdateMember(ctx context.Context, networkID, memberID string, patch map[string]interface{}) (map[string]interface{}, error)
}

// SessionOptions configures a Session.
type SessionOptions struct {
	// Mapper converts API objects. Defaults to mapper.New(nil).
	Mapper *mapper.Mapper

	// Logger receives permission warnings and debug output.
	Logger *zap.Logger
}

// Session is an authenticated handle on the Central API.
type Session struct {
	api    API
	mapper *mapper.Mapper
	logger *zap.Logger
	status types.Status
}

// Open builds a Central client from clientOpts and opens a Session over it.
func Open(ctx context.Context, clientOpts central.Options, opts SessionOptions) (*Session, error) {
	if clientOpts.Logger == nil {
		clientOpts.Logger = opts.Logger
	}
	client, err := central.New(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrAuthentication, err)
	}
	return NewSession(ctx, client, opts)
}

// NewSession fetches the API status and keeps the current user for
// permission lookups. Any failure of the status call is an authentication
// failure.
func NewSession(ctx context.Context, api API, opts SessionOptions) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Mapper == nil {
		opts.Mapper = mapper.New(nil)
	}

	raw, err := api.GetStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrAuthentication, err)
	}
	status, err := mapper.Status(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrAuthentication, err)
	}

	logger := opts.Logger.Named("netsvc")
	logger.Info("Authenticated",
		zap.String("user_id", status.CurrentUser.ID),
		zap.String("server_version", status.Version),
		zap.Int("api_version", status.APIVersion),
	)

	return &Session{
		api:    api,
		mapper: opts.Mapper,
		logger: logger,
		status: status,
	}, nil
}

// Status returns the status fetched when the session was opened.
func (s *Session) Status() types.Status {
	return s.status
}

// ForNetwork fetches a network and snapshots the current user's permissions.
func (s *Session) ForNetwork(ctx context.Context, networkID string) (*NetworkContext, error) {
	raw, err := s.api.GetNetwork(ctx, networkID)
	if err != nil {
		if errors.Is(err, central.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", types.ErrNetworkNotFound, networkID)
		}
		return nil, fmt.Errorf("failed to get network %s: %w", networkID, err)
	}

	network, err := mapper.Network(raw, s.status.CurrentUser.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Network permissions",
		zap.String("network_id", network.ID),
		zap.Bool("read", network.Permissions.Read),
		zap.Bool("authorize", network.Permissions.Authorize),
		zap.Bool("modify", network.Permissions.Modify),
		zap.Bool("delete", network.Permissions.Delete),
	)

	return &NetworkContext{
		api:     s.api,
		mapper:  s.mapper,
		logger:  s.logger.With(zap.String("network_id", network.ID)),
		network: network,
	}, nil
}

// NetworkContext runs member operations on one network.
type NetworkContext struct {
	api     API
	mapper  *mapper.Mapper
	logger  *zap.Logger
	network types.Network
}

// Network returns the network record fetched by ForNetwork.
func (n *NetworkContext) Network() types.Network {
	return n.network
}

// Permissions returns the caller's permission snapshot.
func (n *NetworkContext) Permissions() types.NetworkPermissions {
	return n.network.Permissions
}

// ListMembers returns every member in server order.
func (n *NetworkContext) ListMembers(ctx context.Context) ([]types.NetworkMember, error) {
	raw, err := n.api.ListMembers(ctx, n.network.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of network %s: %w", n.network.ID, err)
	}
	return n.mapper.Members(raw)
}

// GetMember returns one member.
func (n *NetworkContext) GetMember(ctx context.Context, memberID string) (types.NetworkMember, error) {
	raw, err := n.api.GetMember(ctx, n.network.ID, memberID)
	if err != nil {
		return types.NetworkMember{}, n.memberError(memberID, err)
	}
	return n.mapper.Member(raw)
}

// UpdateMember sends the requested changes in a single call and returns the
// member as stored afterwards.
//
// Without modify permission, name and description are dropped and a warning
// is logged for each; authorized is still sent. If nothing is left to send,
// no update is issued and the member is fetched unchanged.
func (n *NetworkContext) UpdateMember(ctx context.Context, memberID string, update types.MemberUpdate) (types.NetworkMember, error) {
	patch, warnings := DropFieldsLackingPermission(mapper.BuildUpdatePatch(update), n.network.Permissions)
	for _, w := range warnings {
		n.logger.Warn(w, zap.String("member_id", memberID))
	}
	if len(patch) == 0 && len(warnings) > 0 {
		n.logger.Warn("Nothing left to update; member left unchanged", zap.String("member_id", memberID))
		return n.GetMember(ctx, memberID)
	}

	n.logger.Debug("Updating member",
		zap.String("member_id", memberID),
		zap.Any("patch", patch),
	)

	raw, err := n.api.UpdateMember(ctx, n.network.ID, memberID, patch)
	if err != nil {
		return types.NetworkMember{}, n.memberError(memberID, err)
	}
	return n.mapper.Member(raw)
}

func (n *NetworkContext) memberError(memberID string, err error) error {
	if errors.Is(err, central.ErrNotFound) {
		return fmt.Errorf("%w: %s on network %s", types.ErrMemberNotFound, memberID, n.network.ID)
	}
	return fmt.Errorf("member %s on network %s: %w", memberID, n.network.ID, err)
}
