package handlers

import (
	"net/http"
	"strings"
)

// The router's tree rejects a static segment ("user", "team") beside
// the :workspaceId parameter, so the two workspace listing paths are
// registered under these alias routes and the public paths are
// rewritten onto them before routing.
const (
	ListByUserRoute = "/workspace-list/user/:userId"
	ListByTeamRoute = "/workspace-list/team/:teamId"
)

// ListRouteAliases fronts the router and maps the public listing paths
// onto their alias routes. All other requests pass through untouched.
func ListRouteAliases(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			if rest, ok := strings.CutPrefix(r.URL.Path, "/workspace/user/"); ok && rest != "" {
				r.URL.Path = "/workspace-list/user/" + rest
			} else if rest, ok := strings.CutPrefix(r.URL.Path, "/workspace/team/"); ok && rest != "" {
				r.URL.Path = "/workspace-list/team/" + rest
			}
		}
		next.ServeHTTP(w, r)
	})
}
