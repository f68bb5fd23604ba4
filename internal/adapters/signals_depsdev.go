package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depwarden/internal/ports"
	"depwarden/internal/shared"
	"depwarden/internal/types"
)

// DepsDevAdapter fetches health signals from the deps.dev API, with
// registry-side probes for deprecation (npm marker, pypi inactive
// classifier) and npm lifecycle scripts, and a GitHub fallback for
// popularity counts when deps.dev lacks the project document. One
// FetchSignals call covers one (coordinate, version) pair and carries its
// own timeout; sub-lookups beyond the version document degrade field-wise
// because absence is data, not error.
type DepsDevAdapter struct {
	BaseURL         string
	NpmRegistryURL  string
	PyPIRegistryURL string
	GitHubAPIURL    string
	Client          *http.Client
	Timeout         time.Duration
	Retries         int
}

const defaultDepsDevBaseURL = "https://api.deps.dev"
const defaultNpmRegistryURL = "https://registry.npmjs.org"
const defaultPyPIRegistryURL = "https://pypi.org"
const defaultGitHubAPIURL = "https://api.github.com"
const defaultSignalTimeout = 10 * time.Second
const defaultSignalRetries = 1

func NewDepsDevAdapter(baseURL string, npmRegistryURL string, timeout time.Duration, retries int) DepsDevAdapter {
	if baseURL == "" {
		baseURL = defaultDepsDevBaseURL
	}
	if npmRegistryURL == "" {
		npmRegistryURL = defaultNpmRegistryURL
	}
	if timeout <= 0 {
		timeout = defaultSignalTimeout
	}
	if retries < 0 {
		retries = defaultSignalRetries
	}
	return DepsDevAdapter{
		BaseURL:         baseURL,
		NpmRegistryURL:  npmRegistryURL,
		PyPIRegistryURL: defaultPyPIRegistryURL,
		GitHubAPIURL:    defaultGitHubAPIURL,
		Client:          &http.Client{},
		Timeout:         timeout,
		Retries:         retries,
	}
}

type depsDevVersion struct {
	PublishedAt  string `json:"publishedAt"`
	AdvisoryKeys []struct {
		ID string `json:"id"`
	} `json:"advisoryKeys"`
	RelatedProjects []struct {
		ProjectKey struct {
			ID string `json:"id"`
		} `json:"projectKey"`
	} `json:"relatedProjects"`
}

type depsDevProject struct {
	StarsCount *int `json:"starsCount"`
	ForksCount *int `json:"forksCount"`
	Scorecard  *struct {
		OverallScore *float64 `json:"overallScore"`
		Checks       []struct {
			Name  string   `json:"name"`
			Score *float64 `json:"score"`
		} `json:"checks"`
	} `json:"scorecard"`
}

type depsDevDependents struct {
	DependentCount *int `json:"dependentCount"`
}

type npmRegistryVersion struct {
	Deprecated *string           `json:"deprecated"`
	Scripts    map[string]string `json:"scripts"`
}

type pypiRegistryDoc struct {
	Info struct {
		Classifiers []string `json:"classifiers"`
	} `json:"info"`
}

type githubRepoDoc struct {
	StargazersCount *int `json:"stargazers_count"`
	ForksCount      *int `json:"forks_count"`
}

func (a DepsDevAdapter) FetchSignals(ctx context.Context, coordinate types.Coordinate, version string) (types.HealthSignals, error) {
	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	escapedName := url.PathEscape(coordinate.Name)
	versionURL := fmt.Sprintf("%s/v3/systems/%s/packages/%s/versions/%s",
		a.BaseURL, coordinate.Registry, escapedName, url.PathEscape(version))

	var versionData depsDevVersion
	if err := a.getJSON(ctx, versionURL, &versionData); err != nil {
		return types.HealthSignals{}, err
	}

	signals := types.HealthSignals{}
	advisoryCount := len(versionData.AdvisoryKeys)
	signals.AdvisoryCount = &advisoryCount
	for _, advisory := range versionData.AdvisoryKeys {
		signals.AdvisoryIDs = append(signals.AdvisoryIDs, advisory.ID)
	}
	if versionData.PublishedAt != "" {
		if published, err := time.Parse(time.RFC3339, versionData.PublishedAt); err == nil {
			utc := published.UTC()
			signals.FirstPublishedAt = &utc
		}
	}

	if projectID := firstProjectID(versionData); projectID != "" {
		a.fillProjectSignals(ctx, projectID, &signals)
	}
	a.fillDependentsCount(ctx, coordinate, escapedName, version, &signals)
	switch coordinate.Registry {
	case types.EcosystemNpm:
		a.fillNpmRegistrySignals(ctx, coordinate.Name, version, &signals)
	case types.EcosystemPyPI:
		a.fillPyPIRegistrySignals(ctx, coordinate.Name, version, &signals)
	}

	return signals, nil
}

func firstProjectID(versionData depsDevVersion) string {
	if len(versionData.RelatedProjects) == 0 {
		return ""
	}
	return versionData.RelatedProjects[0].ProjectKey.ID
}

func (a DepsDevAdapter) fillProjectSignals(ctx context.Context, projectID string, signals *types.HealthSignals) {
	projectURL := fmt.Sprintf("%s/v3/projects/%s", a.BaseURL, url.PathEscape(projectID))
	var project depsDevProject
	if err := a.getJSON(ctx, projectURL, &project); err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("project", projectID).Msg("project lookup degraded")
		a.fillGitHubFallback(ctx, projectID, signals)
		return
	}
	signals.Stars = project.StarsCount
	signals.Forks = project.ForksCount
	if project.Scorecard == nil {
		return
	}
	signals.HealthScore = project.Scorecard.OverallScore
	for _, check := range project.Scorecard.Checks {
		if check.Name != "Maintained" || check.Score == nil {
			continue
		}
		if *check.Score == 0 {
			signals.MaintenanceStatus = types.MaintenanceStatusInactive
		} else {
			signals.MaintenanceStatus = types.MaintenanceStatusActive
		}
	}
}

func (a DepsDevAdapter) fillDependentsCount(ctx context.Context, coordinate types.Coordinate, escapedName string, version string, signals *types.HealthSignals) {
	dependentsURL := fmt.Sprintf("%s/v3alpha/systems/%s/packages/%s/versions/%s:dependents",
		a.BaseURL, coordinate.Registry, escapedName, url.PathEscape(version))
	var dependents depsDevDependents
	if err := a.getJSON(ctx, dependentsURL, &dependents); err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("package", coordinate.Name).Msg("dependents lookup degraded")
		return
	}
	signals.DependentsCount = dependents.DependentCount
}

// fillNpmRegistrySignals probes the npm registry for the deprecation
// marker and install lifecycle scripts, signals deps.dev does not
// expose.
func (a DepsDevAdapter) fillNpmRegistrySignals(ctx context.Context, name string, version string, signals *types.HealthSignals) {
	registryURL := fmt.Sprintf("%s/%s/%s", a.NpmRegistryURL, name, url.PathEscape(version))
	var entry npmRegistryVersion
	if err := a.getJSON(ctx, registryURL, &entry); err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("package", name).Msg("npm registry lookup degraded")
		return
	}
	if entry.Deprecated != nil {
		signals.MaintenanceStatus = types.MaintenanceStatusDeprecated
	}
	hasHook := false
	for _, script := range []string{"preinstall", "install", "postinstall"} {
		if _, ok := entry.Scripts[script]; ok {
			hasHook = true
		}
	}
	signals.HasPostInstallScript = &hasHook
}

// fillGitHubFallback recovers stars and forks directly from the GitHub
// API when deps.dev has no project document but the project id names a
// GitHub repository.
func (a DepsDevAdapter) fillGitHubFallback(ctx context.Context, projectID string, signals *types.HealthSignals) {
	ownerRepo, found := strings.CutPrefix(projectID, "github.com/")
	if !found {
		return
	}
	repoURL := fmt.Sprintf("%s/repos/%s", a.GitHubAPIURL, ownerRepo)
	var repo githubRepoDoc
	if err := a.getJSON(ctx, repoURL, &repo); err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("project", projectID).Msg("github fallback degraded")
		return
	}
	signals.Stars = repo.StargazersCount
	signals.Forks = repo.ForksCount
}

// fillPyPIRegistrySignals probes the pypi JSON API for the trove
// classifier that marks a project as inactive. PyPI has no deprecation
// field; the classifier is the conventional signal.
func (a DepsDevAdapter) fillPyPIRegistrySignals(ctx context.Context, name string, version string, signals *types.HealthSignals) {
	registryURL := fmt.Sprintf("%s/pypi/%s/%s/json", a.PyPIRegistryURL, name, url.PathEscape(version))
	var doc pypiRegistryDoc
	if err := a.getJSON(ctx, registryURL, &doc); err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("package", name).Msg("pypi registry lookup degraded")
		return
	}
	for _, classifier := range doc.Info.Classifiers {
		if strings.EqualFold(strings.TrimSpace(classifier), "Development Status :: 7 - Inactive") {
			signals.MaintenanceStatus = types.MaintenanceStatusDeprecated
			return
		}
	}
}

// getJSON performs one GET with at most Retries additional attempts on
// transport failure. Non-success statuses are never retried: a 404 is a
// semantic answer, not a transient fault.
func (a DepsDevAdapter) getJSON(ctx context.Context, requestURL string, target any) error {
	var lastErr error
	for attempt := 0; attempt <= a.Retries; attempt++ {
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to build signal request").
				WithCause(err)
		}
		response, err := a.Client.Do(request)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		body, readErr := io.ReadAll(response.Body)
		response.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}
		if response.StatusCode != http.StatusOK {
			return errbuilder.New().
				WithCode(errbuilder.CodeUnavailable).
				WithMsg("signal lookup returned non-success status").
				WithCause(shared.HTTPStatusError(response.StatusCode, requestURL))
		}
		if err := json.Unmarshal(body, target); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeUnavailable).
				WithMsg("signal payload malformed").
				WithCause(err)
		}
		return nil
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg("signal lookup failed").
		WithCause(lastErr)
}

var _ ports.SignalSourcePort = DepsDevAdapter{}
