package handlers

import (
	"net/http"
	"strconv"

	"consign-backend/internal/apperr"

	"github.com/gorilla/mux"
)

// pathID parses the {id} route variable.
func pathID(r *http.Request) (int, error) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil || id < 1 {
		return 0, apperr.Validation("invalid id %q", idStr)
	}
	return id, nil
}
