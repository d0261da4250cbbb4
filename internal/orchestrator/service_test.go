package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pipedock/oauthbridge/internal/connector"
	"github.com/pipedock/oauthbridge/internal/oauth"
	"github.com/pipedock/oauthbridge/internal/reconcile"
	"github.com/pipedock/oauthbridge/internal/secrets"
	"github.com/pipedock/oauthbridge/internal/store"
)

// recordingFlow captures the requests it receives and replies with canned
// responses.
type recordingFlow struct {
	consentReq  *oauth.ConsentRequest
	completeReq *oauth.CompleteRequest
	consentURL  string
	result      map[string]any
	err         error
}

func (f *recordingFlow) ConsentURL(_ context.Context, req oauth.ConsentRequest) (string, error) {
	f.consentReq = &req
	return f.consentURL, f.err
}

func (f *recordingFlow) Complete(_ context.Context, req oauth.CompleteRequest) (map[string]any, error) {
	f.completeReq = &req
	return f.result, f.err
}

// recordingTracker captures analytics events and optionally fails.
type recordingTracker struct {
	events []string
	err    error
}

func (t *recordingTracker) Track(_ context.Context, _ uuid.UUID, event string, _ map[string]any) error {
	t.events = append(t.events, event)
	return t.err
}

type fixture struct {
	svc     *Service
	catalog *connector.MemoryCatalog
	configs *store.Memory
	secrets *secrets.MemoryWriter
	flow    *recordingFlow
	tracker *recordingTracker
	logs    *observer.ObservedLogs

	workspaceID  uuid.UUID
	definitionID uuid.UUID
	connectorID  uuid.UUID
}

func advancedAuthSpec() *connector.Spec {
	return &connector.Spec{
		AdvancedAuth: &connector.AdvancedAuth{
			AuthFlowType: "oauth2.0",
			OAuthConfigSpec: &connector.OAuthConfigSpec{
				UserInputFromConnectorConfig: map[string]any{
					"properties": map[string]any{
						"client_id": map[string]any{
							"path_in_connector_config": []any{"credentials", "client_id"},
						},
						"client_secret": map[string]any{
							"path_in_connector_config": []any{"credentials", "client_secret"},
						},
					},
				},
			},
		},
	}
}

func newFixture(t *testing.T, spec *connector.Spec) *fixture {
	t.Helper()

	f := &fixture{
		catalog:      connector.NewMemoryCatalog(),
		configs:      store.NewMemory(),
		secrets:      secrets.NewMemoryWriter(),
		flow:         &recordingFlow{consentURL: "https://provider.test/consent"},
		tracker:      &recordingTracker{},
		workspaceID:  uuid.New(),
		definitionID: uuid.New(),
		connectorID:  uuid.New(),
	}

	def := &connector.Definition{ID: f.definitionID, Name: "Salesforce", Provider: "salesforce"}
	f.catalog.AddDefinition(def, &connector.Version{DefinitionID: f.definitionID, Tag: "1.2.0", Spec: spec})

	flows := oauth.NewRegistry()
	flows.Register("salesforce", f.flow)

	core, logs := observer.New(zap.WarnLevel)
	f.logs = logs
	f.svc = New(f.catalog, f.configs, f.secrets, flows, Options{
		Tracker: f.tracker,
		Logger:  zap.New(core),
	})
	return f
}

func TestGetConsentURL_NewConnector(t *testing.T) {
	f := newFixture(t, advancedAuthSpec())

	resp, err := f.svc.GetConsentURL(context.Background(), ConsentURLRequest{
		WorkspaceID:  f.workspaceID,
		DefinitionID: f.definitionID,
		RedirectURL:  "https://app.test/callback",
		InputConfig:  map[string]any{"client_id": "fresh-id"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://provider.test/consent", resp.ConsentURL)

	// No connector id: the caller input goes through untouched.
	require.NotNil(t, f.flow.consentReq)
	assert.Equal(t, map[string]any{"client_id": "fresh-id"}, f.flow.consentReq.InputConfig)
	assert.NotNil(t, f.flow.consentReq.Spec)
	assert.Equal(t, "https://app.test/callback", f.flow.consentReq.RedirectURL)

	assert.Equal(t, []string{"Get Oauth Consent URL"}, f.tracker.events)
}

func TestGetConsentURL_ExistingConnectorUnmasks(t *testing.T) {
	f := newFixture(t, advancedAuthSpec())
	f.configs.PutHydratedConfig(f.connectorID, map[string]any{
		"credentials": map[string]any{
			"client_id":     "stored-id",
			"client_secret": "stored-secret",
		},
	})

	resp, err := f.svc.GetConsentURL(context.Background(), ConsentURLRequest{
		WorkspaceID:  f.workspaceID,
		DefinitionID: f.definitionID,
		ConnectorID:  &f.connectorID,
		RedirectURL:  "https://app.test/callback",
		InputConfig: map[string]any{
			"client_id":     "caller-id",
			"client_secret": reconcile.MaskSentinel,
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ConsentURL)

	require.NotNil(t, f.flow.consentReq)
	assert.Equal(t, map[string]any{
		"client_id":     "caller-id",
		"client_secret": "stored-secret",
	}, f.flow.consentReq.InputConfig)
}

func TestGetConsentURL_LegacySpecWithoutAdvancedAuth(t *testing.T) {
	f := newFixture(t, &connector.Spec{})

	_, err := f.svc.GetConsentURL(context.Background(), ConsentURLRequest{
		WorkspaceID:  f.workspaceID,
		DefinitionID: f.definitionID,
		InputConfig:  map[string]any{"ignored": true},
	})
	require.NoError(t, err)

	require.NotNil(t, f.flow.consentReq)
	assert.Empty(t, f.flow.consentReq.InputConfig)
	assert.Nil(t, f.flow.consentReq.Spec)
}

func TestGetConsentURL_MissingStoredConfigDropsMaskedFields(t *testing.T) {
	f := newFixture(t, advancedAuthSpec())
	// No hydrated config stored for the connector.

	_, err := f.svc.GetConsentURL(context.Background(), ConsentURLRequest{
		WorkspaceID:  f.workspaceID,
		DefinitionID: f.definitionID,
		ConnectorID:  &f.connectorID,
		InputConfig: map[string]any{
			"client_id":     "caller-id",
			"client_secret": reconcile.MaskSentinel,
		},
	})
	require.NoError(t, err, "absent stored configuration is tolerated")

	require.NotNil(t, f.flow.consentReq)
	assert.Equal(t, map[string]any{"client_id": "caller-id"}, f.flow.consentReq.InputConfig)
	assert.NotEmpty(t, f.logs.FilterMessage("connector has no stored configuration").All())
}

func TestGetConsentURL_UnknownDefinition(t *testing.T) {
	f := newFixture(t, advancedAuthSpec())

	_, err := f.svc.GetConsentURL(context.Background(), ConsentURLRequest{
		WorkspaceID:  f.workspaceID,
		DefinitionID: uuid.New(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, connector.ErrDefinitionNotFound)
	assert.Empty(t, f.tracker.events, "no analytics for failed lookups")
}

func TestGetConsentURL_UnknownProvider(t *testing.T) {
	f := newFixture(t, advancedAuthSpec())
	otherDef := uuid.New()
	f.catalog.AddDefinition(
		&connector.Definition{ID: otherDef, Name: "Obscure", Provider: "obscure"},
		&connector.Version{DefinitionID: otherDef, Spec: advancedAuthSpec()},
	)

	_, err := f.svc.GetConsentURL(context.Background(), ConsentURLRequest{
		WorkspaceID:  f.workspaceID,
		DefinitionID: otherDef,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, oauth.ErrUnknownProvider)
}

func TestGetConsentURL_MalformedSchemaIsFatal(t *testing.T) {
	spec := advancedAuthSpec()
	spec.AdvancedAuth.OAuthConfigSpec.UserInputFromConnectorConfig = map[string]any{
		"properties": map[string]any{"client_id": "not-an-object"},
	}
	f := newFixture(t, spec)
	f.configs.PutHydratedConfig(f.connectorID, map[string]any{})

	_, err := f.svc.GetConsentURL(context.Background(), ConsentURLRequest{
		WorkspaceID:  f.workspaceID,
		DefinitionID: f.definitionID,
		ConnectorID:  &f.connectorID,
		InputConfig:  map[string]any{},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, connector.ErrMalformedSchema)
}

func TestGetConsentURL_AnalyticsFailureIsSwallowed(t *testing.T) {
	f := newFixture(t, advancedAuthSpec())
	f.tracker.err = errors.New("segment is down")

	resp, err := f.svc.GetConsentURL(context.Background(), ConsentURLRequest{
		WorkspaceID:  f.workspaceID,
		DefinitionID: f.definitionID,
		InputConfig:  map[string]any{},
	})
	require.NoError(t, err, "analytics failures never surface")
	assert.NotEmpty(t, resp.ConsentURL)
	assert.NotEmpty(t, f.logs.FilterMessage("failed while reporting usage").All())
}

func TestCompleteOAuth(t *testing.T) {
	f := newFixture(t, advancedAuthSpec())
	f.flow.result = map[string]any{
		"request_succeeded": "true",
		"access_token":      "abc",
	}

	resp, err := f.svc.CompleteOAuth(context.Background(), CompleteOAuthRequest{
		WorkspaceID:  f.workspaceID,
		DefinitionID: f.definitionID,
		RedirectURL:  "https://app.test/callback",
		QueryParams:  map[string]any{"code": "authcode"},
		InputConfig:  map[string]any{"client_id": "fresh-id"},
	})
	require.NoError(t, err)

	assert.True(t, resp.RequestSucceeded)
	assert.Equal(t, map[string]any{"access_token": "abc"}, resp.AuthPayload)

	require.NotNil(t, f.flow.completeReq)
	assert.Equal(t, map[string]any{"code": "authcode"}, f.flow.completeReq.QueryParams)
	assert.Equal(t, []string{"Complete OAuth Flow"}, f.tracker.events)
}

func TestCompleteOAuth_ProviderError(t *testing.T) {
	f := newFixture(t, advancedAuthSpec())
	f.flow.err = errors.New("provider timeout")

	_, err := f.svc.CompleteOAuth(context.Background(), CompleteOAuthRequest{
		WorkspaceID:  f.workspaceID,
		DefinitionID: f.definitionID,
		InputConfig:  map[string]any{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token exchange")
	assert.Empty(t, f.tracker.events)
}

func TestCompleteOAuth_ReturnSecretCoordinate(t *testing.T) {
	f := newFixture(t, advancedAuthSpec())
	f.flow.result = map[string]any{
		"access_token":  "abc",
		"refresh_token": "def",
	}

	resp, err := f.svc.CompleteOAuth(context.Background(), CompleteOAuthRequest{
		WorkspaceID:            f.workspaceID,
		DefinitionID:           f.definitionID,
		InputConfig:            map[string]any{},
		ReturnSecretCoordinate: true,
	})
	require.NoError(t, err)

	require.Len(t, resp.AuthPayload, 1, "tokens replaced by the secret reference")
	ref, ok := resp.AuthPayload[secrets.SecretIDKey].(string)
	require.True(t, ok)

	stored, ok := f.secrets.Get(ref)
	require.True(t, ok)
	assert.Contains(t, stored, `"access_token":"abc"`)
}

func TestSetProviderParams(t *testing.T) {
	f := newFixture(t, advancedAuthSpec())
	ctx := context.Background()

	require.NoError(t, f.svc.SetProviderParams(ctx, f.definitionID, map[string]any{
		"client_id": "instance-wide-id",
	}))

	first, err := f.configs.ProviderParams(ctx, f.definitionID)
	require.NoError(t, err)
	assert.Equal(t, f.definitionID, first.DefinitionID)
	assert.Equal(t, "instance-wide-id", first.Config["client_id"])
	assert.NotEqual(t, uuid.Nil, first.ID)

	// Updating keeps the existing param id.
	require.NoError(t, f.svc.SetProviderParams(ctx, f.definitionID, map[string]any{
		"client_id": "rotated-id",
	}))
	second, err := f.configs.ProviderParams(ctx, f.definitionID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "rotated-id", second.Config["client_id"])
}
