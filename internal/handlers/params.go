package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/layout-backend/internal/errs"
	"github.com/GregMSThompson/layout-backend/internal/middleware"
	"github.com/GregMSThompson/layout-backend/internal/models"
)

const selfID = "me"

// ownerRef reads {kind}/{id} from the route. "me" stands for the caller.
func ownerRef(r *http.Request) (models.OwnerRef, error) {
	kind := models.LayoutKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		return models.OwnerRef{}, errs.NewNotFoundError("unknown layout kind")
	}
	return resolveOwner(r, kind, chi.URLParam(r, "id"))
}

// resolveOwner swaps "me" for the caller's uid. Guilds are not owned by a
// single user, so they need a real id.
func resolveOwner(r *http.Request, kind models.LayoutKind, id string) (models.OwnerRef, error) {
	if id == selfID {
		if kind == models.KindGuild {
			return models.OwnerRef{}, errs.NewValidationError("guild layouts need a guild id")
		}
		id = middleware.UID(r.Context())
	}
	if id == "" {
		return models.OwnerRef{}, errs.NewValidationError("layout id is required")
	}
	return models.OwnerRef{Kind: kind, ID: id}, nil
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.NewValidationError("invalid request body")
	}
	return nil
}

func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errs.NewValidationError(key + " must be a non-negative integer")
	}
	return n, nil
}

func queryBool(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}
