package directory

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"keyward/internal/domain"
)

// Handler exposes a Memory engine over the directory's HTTP routes.
// It backs the development directory server and the client tests; a
// production directory implements the same routes with durable storage
// and real eligibility checks.
func Handler(engine *Memory, log *logrus.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/v1/bundles/{user}/{device}", func(w http.ResponseWriter, req *http.Request) {
		user, device, ok := bundleKey(w, req)
		if !ok {
			return
		}
		var in publishRequest
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := engine.PublishBundle(req.Context(), user, device, in.Bundle, in.ExpiresAt); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		log.WithFields(logrus.Fields{"user": user, "device": device}).Info("bundle published")
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/v1/bundles/{user}/{device}/consume", func(w http.ResponseWriter, req *http.Request) {
		user, device, ok := bundleKey(w, req)
		if !ok {
			return
		}
		if err := engine.ConsumePreviousActive(req.Context(), user, device); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/v1/bundles/{user}/{device}", func(w http.ResponseWriter, req *http.Request) {
		user, device, ok := bundleKey(w, req)
		if !ok {
			return
		}
		token := domain.InviteToken(req.URL.Query().Get("invite_token"))
		bundle, ref, found, err := engine.FetchBundle(req.Context(), user, device, token)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if !found {
			http.Error(w, "no active bundle", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(fetchResponse{Ref: ref, Bundle: bundle})
	})

	r.Post("/v1/prekeys/{ref}/consumed", func(w http.ResponseWriter, req *http.Request) {
		ref := domain.BundleRecordRef(chi.URLParam(req, "ref"))
		if err := engine.MarkOneTimePreKeyConsumed(req.Context(), ref); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

func bundleKey(w http.ResponseWriter, req *http.Request) (domain.UserID, domain.DeviceID, bool) {
	user := domain.UserID(chi.URLParam(req, "user"))
	device, err := strconv.ParseUint(chi.URLParam(req, "device"), 10, 32)
	if err != nil {
		http.Error(w, "bad device id", http.StatusBadRequest)
		return "", 0, false
	}
	return user, domain.DeviceID(device), true
}
