package adapters

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"depwarden/internal/types"
)

func newSignalTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/systems/npm/packages/left-pad/versions/1.3.0", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"publishedAt": "2024-03-01T10:00:00Z",
			"advisoryKeys": [{"id": "GHSA-xxxx"}],
			"relatedProjects": [{"projectKey": {"id": "github.com/left-pad/left-pad"}}]
		}`))
	})
	// The project id arrives path-escaped; match the subtree to stay
	// independent of ServeMux decoding.
	mux.HandleFunc("/v3/projects/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"starsCount": 3,
			"forksCount": 1,
			"scorecard": {
				"overallScore": 2.5,
				"checks": [{"name": "Maintained", "score": 0}]
			}
		}`))
	})
	mux.HandleFunc("/v3alpha/systems/npm/packages/left-pad/versions/1.3.0:dependents", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"dependentCount": 4}`))
	})
	mux.HandleFunc("/left-pad/1.3.0", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"deprecated": "use String.prototype.padStart", "scripts": {"postinstall": "node setup.js"}}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestDepsDevFetchSignals(t *testing.T) {
	server := newSignalTestServer(t)
	adapter := NewDepsDevAdapter(server.URL, server.URL, 5*time.Second, 0)

	coordinate := types.Coordinate{Registry: types.EcosystemNpm, Name: "left-pad"}
	signals, err := adapter.FetchSignals(t.Context(), coordinate, "1.3.0")
	require.NoError(t, err)

	require.NotNil(t, signals.AdvisoryCount)
	require.Equal(t, 1, *signals.AdvisoryCount)
	require.Equal(t, []string{"GHSA-xxxx"}, signals.AdvisoryIDs)

	require.NotNil(t, signals.FirstPublishedAt)
	require.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), *signals.FirstPublishedAt)

	require.NotNil(t, signals.Stars)
	require.Equal(t, 3, *signals.Stars)
	require.NotNil(t, signals.HealthScore)
	require.Equal(t, 2.5, *signals.HealthScore)
	require.NotNil(t, signals.DependentsCount)
	require.Equal(t, 4, *signals.DependentsCount)

	// The npm registry probe reported a deprecation marker, which wins
	// over the scorecard's inactive status.
	require.Equal(t, types.MaintenanceStatusDeprecated, signals.MaintenanceStatus)
	require.NotNil(t, signals.HasPostInstallScript)
	require.True(t, *signals.HasPostInstallScript)
}

func TestDepsDevFetchSignalsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	}))
	t.Cleanup(server.Close)
	adapter := NewDepsDevAdapter(server.URL, server.URL, 5*time.Second, 0)

	coordinate := types.Coordinate{Registry: types.EcosystemPyPI, Name: "ghost-package"}
	_, err := adapter.FetchSignals(t.Context(), coordinate, "0.0.1")
	require.Error(t, err)
}

func TestDepsDevFetchSignalsMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	t.Cleanup(server.Close)
	adapter := NewDepsDevAdapter(server.URL, server.URL, 5*time.Second, 0)

	coordinate := types.Coordinate{Registry: types.EcosystemGo, Name: "example.com/mod"}
	_, err := adapter.FetchSignals(t.Context(), coordinate, "v1.0.0")
	require.Error(t, err)
}

func TestDepsDevProjectDegradesFieldWise(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/systems/pypi/packages/requests/versions/2.31.0", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"publishedAt": "2023-05-22T00:00:00Z", "advisoryKeys": []}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	adapter := NewDepsDevAdapter(server.URL, server.URL, 5*time.Second, 0)
	adapter.PyPIRegistryURL = server.URL

	coordinate := types.Coordinate{Registry: types.EcosystemPyPI, Name: "requests"}
	signals, err := adapter.FetchSignals(t.Context(), coordinate, "2.31.0")
	require.NoError(t, err)

	require.NotNil(t, signals.AdvisoryCount)
	require.Equal(t, 0, *signals.AdvisoryCount)
	require.Nil(t, signals.Stars)
	require.Nil(t, signals.HealthScore)
	require.Nil(t, signals.DependentsCount)
}

func TestDepsDevPyPIInactiveClassifier(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/systems/pypi/packages/abandoned-pkg/versions/1.0.0", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"publishedAt": "2019-01-01T00:00:00Z", "advisoryKeys": []}`))
	})
	mux.HandleFunc("/pypi/abandoned-pkg/1.0.0/json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"info": {"classifiers": [
			"Programming Language :: Python :: 3",
			"development status :: 7 - inactive"
		]}}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	adapter := NewDepsDevAdapter(server.URL, server.URL, 5*time.Second, 0)
	adapter.PyPIRegistryURL = server.URL

	coordinate := types.Coordinate{Registry: types.EcosystemPyPI, Name: "abandoned-pkg"}
	signals, err := adapter.FetchSignals(t.Context(), coordinate, "1.0.0")
	require.NoError(t, err)
	require.Equal(t, types.MaintenanceStatusDeprecated, signals.MaintenanceStatus)
}

func TestDepsDevGitHubFallbackForStars(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/systems/pypi/packages/niche-pkg/versions/2.0.0", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"publishedAt": "2022-06-01T00:00:00Z",
			"advisoryKeys": [],
			"relatedProjects": [{"projectKey": {"id": "github.com/niche/pkg"}}]
		}`))
	})
	mux.HandleFunc("/v3/projects/", func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	})
	mux.HandleFunc("/repos/niche/pkg", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"stargazers_count": 42, "forks_count": 7}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	adapter := NewDepsDevAdapter(server.URL, server.URL, 5*time.Second, 0)
	adapter.PyPIRegistryURL = server.URL
	adapter.GitHubAPIURL = server.URL

	coordinate := types.Coordinate{Registry: types.EcosystemPyPI, Name: "niche-pkg"}
	signals, err := adapter.FetchSignals(t.Context(), coordinate, "2.0.0")
	require.NoError(t, err)

	require.NotNil(t, signals.Stars)
	require.Equal(t, 42, *signals.Stars)
	require.NotNil(t, signals.Forks)
	require.Equal(t, 7, *signals.Forks)
	// No project document means no scorecard either way.
	require.Nil(t, signals.HealthScore)
}
