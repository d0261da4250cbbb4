// Package orchestrator wires the OAuth consent and token-exchange flows
// together: catalog lookups, configuration reconciliation, provider flow
// dispatch, secret materialization, and best-effort analytics.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/pipedock/oauthbridge/internal/analytics"
	"github.com/pipedock/oauthbridge/internal/connector"
	"github.com/pipedock/oauthbridge/internal/oauth"
	"github.com/pipedock/oauthbridge/internal/observability"
	"github.com/pipedock/oauthbridge/internal/reconcile"
	"github.com/pipedock/oauthbridge/internal/secrets"
	"github.com/pipedock/oauthbridge/internal/store"
)

// Analytics event names.
const (
	eventConsentURL    = "Get Oauth Consent URL"
	eventCompleteOAuth = "Complete OAuth Flow"
)

// Service orchestrates OAuth consent and exchange for connectors. All state
// lives in the injected collaborators; Service itself is safe for concurrent
// use.
type Service struct {
	catalog connector.Catalog
	configs store.ConfigStore
	secrets secrets.Writer
	flows   *oauth.Registry
	tracker analytics.Tracker
	logger  *zap.Logger
	tracer  oteltrace.Tracer
}

// Options overrides optional Service collaborators.
type Options struct {
	Tracker analytics.Tracker
	Logger  *zap.Logger
	Tracer  oteltrace.Tracer
}

// New assembles a Service. Tracker, Logger, and Tracer default to no-ops.
func New(catalog connector.Catalog, configs store.ConfigStore, secretWriter secrets.Writer, flows *oauth.Registry, opts Options) *Service {
	if opts.Tracker == nil {
		opts.Tracker = analytics.NopTracker{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer("orchestrator")
	}
	return &Service{
		catalog: catalog,
		configs: configs,
		secrets: secretWriter,
		flows:   flows,
		tracker: opts.Tracker,
		logger:  opts.Logger,
		tracer:  opts.Tracer,
	}
}

// ConsentURLRequest asks for the provider page a user visits to grant
// authorization. ConnectorID is set when the consent is for an existing
// connector instance, in which case masked secrets in InputConfig are
// re-hydrated from the stored configuration.
type ConsentURLRequest struct {
	WorkspaceID  uuid.UUID
	DefinitionID uuid.UUID
	ConnectorID  *uuid.UUID
	RedirectURL  string
	InputConfig  map[string]any
}

// ConsentURLResponse carries the provider consent URL.
type ConsentURLResponse struct {
	ConsentURL string
}

// CompleteOAuthRequest finishes an OAuth flow with the provider callback's
// query parameters. When ReturnSecretCoordinate is set the token payload is
// written to the secret store and only the coordinate reference is returned.
type CompleteOAuthRequest struct {
	WorkspaceID            uuid.UUID
	DefinitionID           uuid.UUID
	ConnectorID            *uuid.UUID
	RedirectURL            string
	QueryParams            map[string]any
	InputConfig            map[string]any
	ReturnSecretCoordinate bool
}

// GetConsentURL resolves the connector's pinned version and provider flow,
// reconciles the caller's input configuration against the stored one, and
// asks the flow for a consent URL.
func (s *Service) GetConsentURL(ctx context.Context, req ConsentURLRequest) (*ConsentURLResponse, error) {
	ctx, span := s.tracer.Start(ctx, "oauth.get_consent_url", oteltrace.WithAttributes(
		observability.WorkspaceID(req.WorkspaceID),
		observability.DefinitionID(req.DefinitionID),
	))
	defer span.End()

	def, version, flow, err := s.resolve(ctx, req.DefinitionID, req.ConnectorID, req.WorkspaceID)
	if err != nil {
		return nil, err
	}

	flowReq := oauth.ConsentRequest{
		WorkspaceID:  req.WorkspaceID,
		DefinitionID: req.DefinitionID,
		RedirectURL:  req.RedirectURL,
		InputConfig:  map[string]any{},
	}
	if version.Spec.HasOAuthConfigSpec() {
		input, err := s.inputConfig(ctx, version.Spec, req.ConnectorID, req.InputConfig)
		if err != nil {
			return nil, err
		}
		flowReq.InputConfig = input
		flowReq.Spec = version.Spec.AdvancedAuth.OAuthConfigSpec
	}

	url, err := flow.ConsentURL(ctx, flowReq)
	if err != nil {
		return nil, fmt.Errorf("provider %s consent URL: %w", def.Provider, err)
	}

	s.track(ctx, req.WorkspaceID, eventConsentURL, definitionMetadata(def))
	return &ConsentURLResponse{ConsentURL: url}, nil
}

// CompleteOAuth finishes the token exchange and normalizes the provider's
// raw result. The optional secret write happens only on top of a normalized
// response, so callers always see the uniform shape.
func (s *Service) CompleteOAuth(ctx context.Context, req CompleteOAuthRequest) (*oauth.Response, error) {
	resp, err := s.completeOAuth(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.ReturnSecretCoordinate {
		return secrets.WriteResponseSecret(ctx, s.secrets, req.WorkspaceID, resp)
	}
	return resp, nil
}

func (s *Service) completeOAuth(ctx context.Context, req CompleteOAuthRequest) (*oauth.Response, error) {
	ctx, span := s.tracer.Start(ctx, "oauth.complete", oteltrace.WithAttributes(
		observability.WorkspaceID(req.WorkspaceID),
		observability.DefinitionID(req.DefinitionID),
	))
	defer span.End()

	def, version, flow, err := s.resolve(ctx, req.DefinitionID, req.ConnectorID, req.WorkspaceID)
	if err != nil {
		return nil, err
	}

	flowReq := oauth.CompleteRequest{
		WorkspaceID:  req.WorkspaceID,
		DefinitionID: req.DefinitionID,
		QueryParams:  req.QueryParams,
		RedirectURL:  req.RedirectURL,
		InputConfig:  map[string]any{},
	}
	if version.Spec.HasOAuthConfigSpec() {
		input, err := s.inputConfig(ctx, version.Spec, req.ConnectorID, req.InputConfig)
		if err != nil {
			return nil, err
		}
		flowReq.InputConfig = input
		flowReq.Spec = version.Spec.AdvancedAuth.OAuthConfigSpec
	}

	result, err := flow.Complete(ctx, flowReq)
	if err != nil {
		return nil, fmt.Errorf("provider %s token exchange: %w", def.Provider, err)
	}

	s.track(ctx, req.WorkspaceID, eventCompleteOAuth, definitionMetadata(def))
	return oauth.NormalizeResult(result), nil
}

// SetProviderParams upserts the instance-wide default OAuth parameters for a
// connector definition, minting a fresh param id when none exist yet.
func (s *Service) SetProviderParams(ctx context.Context, definitionID uuid.UUID, params map[string]any) error {
	existing, err := s.configs.ProviderParams(ctx, definitionID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		existing = &store.ProviderParams{ID: uuid.New(), DefinitionID: definitionID}
	case err != nil:
		return fmt.Errorf("read provider params: %w", err)
	}

	existing.Config = params
	if err := s.configs.WriteProviderParams(ctx, existing); err != nil {
		return fmt.Errorf("write provider params: %w", err)
	}
	return nil
}

// resolve looks up the definition, the version pinned for the request scope,
// and the provider flow serving the definition.
func (s *Service) resolve(ctx context.Context, definitionID uuid.UUID, connectorID *uuid.UUID, workspaceID uuid.UUID) (*connector.Definition, *connector.Version, oauth.Flow, error) {
	def, err := s.catalog.Definition(ctx, definitionID)
	if err != nil {
		return nil, nil, nil, err
	}

	var version *connector.Version
	if connectorID != nil {
		version, err = s.catalog.VersionForConnector(ctx, def, *connectorID)
	} else {
		version, err = s.catalog.VersionForWorkspace(ctx, def, workspaceID)
	}
	if err != nil {
		return nil, nil, nil, err
	}

	flow, err := s.flows.Get(def.Provider)
	if err != nil {
		return nil, nil, nil, err
	}
	return def, version, flow, nil
}

// inputConfig produces the configuration handed to the provider flow. For a
// new connector (no id) the caller input is used as-is; for an existing one
// the masked fields are re-hydrated from the stored configuration.
func (s *Service) inputConfig(ctx context.Context, spec *connector.Spec, connectorID *uuid.UUID, input map[string]any) (map[string]any, error) {
	if connectorID == nil {
		return input, nil
	}

	hydrated, err := s.configs.HydratedConfig(ctx, *connectorID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("read hydrated config: %w", err)
		}
		// No stored configuration: masked fields have nothing to fall back
		// to and will be dropped by the merge.
		s.logger.Warn("connector has no stored configuration",
			zap.String("connector_id", connectorID.String()))
		hydrated = map[string]any{}
	}

	declared, err := connector.ExtractConfigPaths(spec.AdvancedAuth.OAuthConfigSpec.UserInputFromConnectorConfig)
	if err != nil {
		return nil, err
	}
	paths := reconcile.BuildFieldPaths(declared)
	stored := reconcile.ResolveStoredValues(hydrated, paths, s.logger)
	return reconcile.MergeWithStored(input, stored, s.logger), nil
}

// track emits an analytics event. Failures are logged and swallowed; usage
// reporting must never break an OAuth flow.
func (s *Service) track(ctx context.Context, workspaceID uuid.UUID, event string, metadata map[string]any) {
	if err := s.tracker.Track(ctx, workspaceID, event, metadata); err != nil {
		s.logger.Error("failed while reporting usage",
			zap.String("event", event),
			zap.Error(err))
	}
}

func definitionMetadata(def *connector.Definition) map[string]any {
	return map[string]any{
		"connector_definition_id":   def.ID.String(),
		"connector_definition_name": def.Name,
		"provider":                  def.Provider,
	}
}
