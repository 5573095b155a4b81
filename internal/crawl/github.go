package crawl

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/yufengw/ai-news-agent/internal/store"
)

// #endregion

// #region github-releases

// githubOrgs maps a source label to the GitHub org whose releases we follow.
var githubOrgs = map[string]string{
	"deepseek":          "deepseek-ai",
	"qwen":              "QwenLM",
	"mistral":           "mistralai",
	"meta-llama":        "meta-llama",
	"black-forest-labs": "black-forest-labs",
}

const (
	ghDefaultBaseURL = "https://api.github.com"
	ghMaxRepos       = 10
	ghMaxReleases    = 5
)

// GitHubReleases crawls published releases of selected model labs.
type GitHubReleases struct {
	baseURL    string
	httpClient *http.Client
}

// NewGitHubReleases creates the GitHub releases crawler.
func NewGitHubReleases() *GitHubReleases {
	return &GitHubReleases{baseURL: ghDefaultBaseURL, httpClient: newHTTPClient()}
}

// Name implements Crawler.
func (g *GitHubReleases) Name() string { return "github-releases" }

type ghRepo struct {
	Name string `json:"name"`
}

type ghRelease struct {
	HTMLURL     string `json:"html_url"`
	TagName     string `json:"tag_name"`
	Body        string `json:"body"`
	PublishedAt string `json:"published_at"`
	Draft       bool   `json:"draft"`
	Prerelease  bool   `json:"prerelease"`
}

// Crawl walks each org's recently updated repos and collects their
// published releases. A failing org or repo is skipped.
func (g *GitHubReleases) Crawl(ctx context.Context) ([]store.Article, error) {
	var articles []store.Article
	for label, org := range githubOrgs {
		var repos []ghRepo
		url := fmt.Sprintf("%s/orgs/%s/repos?per_page=100&sort=updated", g.baseURL, org)
		if err := g.getJSON(ctx, url, &repos); err != nil {
			continue
		}
		if len(repos) > ghMaxRepos {
			repos = repos[:ghMaxRepos]
		}

		for _, repo := range repos {
			var releases []ghRelease
			url := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=%d", g.baseURL, org, repo.Name, ghMaxReleases)
			if err := g.getJSON(ctx, url, &releases); err != nil {
				continue
			}
			for _, rel := range releases {
				if rel.Draft || rel.Prerelease {
					continue
				}
				tag := rel.TagName
				if tag == "" {
					tag = "Release"
				}
				articles = append(articles, store.Article{
					URL:         rel.HTMLURL,
					Title:       fmt.Sprintf("[%s] %s", repo.Name, tag),
					Source:      "github/" + label,
					Summary:     truncate(rel.Body, 500),
					PublishedAt: strings.Replace(rel.PublishedAt, "Z", "+00:00", 1),
				})
			}
		}
	}
	return articles, nil
}

func (g *GitHubReleases) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// #endregion github-releases
