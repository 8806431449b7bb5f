package graphqlapi

import (
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"github.com/xImouto/imoddit/service/authService"
)

// NewHandler - HTTP handler executing GraphQL requests against schema
func NewHandler(schema *graphql.Schema) http.Handler {
	return Authentication(&relay.Handler{Schema: schema})
}

// Authentication - middleware putting the bearer token into request context
// The token is verified later by the services, so that public queries work with a stale token too
func Authentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := authService.TokenFromHeader(r.Header.Get("Authorization"))
		if token != "" {
			r = r.WithContext(authService.WithToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}
