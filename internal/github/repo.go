package github

import (
	"strings"

	"shipit.dev/shipit/internal/errors"
	"shipit.dev/shipit/internal/git"
)

// Hostname is the only remote host deployments can be triggered against.
const Hostname = "github.com"

// Repo identifies a repository on GitHub
type Repo struct {
	Owner string
	Name  string
}

// String returns the owner/name form of the repository
func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRemoteURL parses a git remote URL and extracts the repository owner and name.
// Supported forms:
//   - https://github.com/owner/repo.git
//   - git@github.com:owner/repo.git
//
// A trailing .git suffix is stripped. URLs on any other host are rejected.
func ParseRemoteURL(remoteURL string) (Repo, error) {
	trimmed := strings.TrimSpace(remoteURL)
	trimmed = strings.TrimSuffix(trimmed, ".git")

	var hostname, path string

	if strings.Contains(trimmed, "@") {
		// SSH format: git@hostname:owner/repo or git@hostname/owner/repo
		parts := strings.SplitN(trimmed, "@", 2)
		hostAndPath := parts[1]

		if strings.Contains(hostAndPath, ":") {
			hostPathParts := strings.SplitN(hostAndPath, ":", 2)
			hostname = hostPathParts[0]
			path = hostPathParts[1]
		} else {
			pathParts := strings.SplitN(hostAndPath, "/", 2)
			if len(pathParts) < 2 {
				return Repo{}, errors.NewInvalidRemoteError(remoteURL, "missing path")
			}
			hostname = pathParts[0]
			path = pathParts[1]
		}
	} else {
		// HTTPS format: https://hostname/owner/repo
		withoutScheme := strings.TrimPrefix(trimmed, "https://")
		withoutScheme = strings.TrimPrefix(withoutScheme, "http://")

		hostAndPath := strings.SplitN(withoutScheme, "/", 2)
		if len(hostAndPath) < 2 {
			return Repo{}, errors.NewInvalidRemoteError(remoteURL, "missing path")
		}
		hostname = hostAndPath[0]
		path = hostAndPath[1]
	}

	if hostname != Hostname {
		return Repo{}, errors.NewInvalidRemoteError(remoteURL, "host could not be determined or is not a GitHub remote")
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) != 2 || segments[0] == "" || segments[1] == "" {
		return Repo{}, errors.NewInvalidRemoteError(remoteURL, "path must be owner/repo")
	}

	return Repo{Owner: segments[0], Name: segments[1]}, nil
}

// ResolveRepo turns a user-supplied repository shorthand into a Repo. The
// shorthand may be owner/name or a full remote URL. When empty, the origin
// remote of the repository containing the working directory is used.
func ResolveRepo(shorthand string) (Repo, error) {
	if shorthand != "" {
		if strings.Contains(shorthand, "://") || strings.Contains(shorthand, "@") {
			return ParseRemoteURL(shorthand)
		}
		return ParseRemoteURL("https://" + Hostname + "/" + shorthand)
	}

	repo, err := git.OpenCurrentRepository()
	if err != nil {
		return Repo{}, err
	}

	remoteURL, err := repo.RemoteURL("origin")
	if err != nil {
		return Repo{}, err
	}

	return ParseRemoteURL(remoteURL)
}
