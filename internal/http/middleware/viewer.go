package middleware

import (
	"context"
	"net/http"

	scs "github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
)

type contextKey string

const ViewerIDKey contextKey = "viewer_id"

// Viewer gives every session a stable viewer id and puts it on the request
// context. It must run inside sess.LoadAndSave.
func Viewer(sess *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sess.GetString(r.Context(), string(ViewerIDKey))
			if id == "" {
				id = uuid.NewString()
				sess.Put(r.Context(), string(ViewerIDKey), id)
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ViewerIDKey, id)))
		})
	}
}

// ViewerID returns the id set by Viewer, or "".
func ViewerID(ctx context.Context) string {
	id, _ := ctx.Value(ViewerIDKey).(string)
	return id
}
