package utils

import (
	"encoding/json"
	"net/http"

	"mobistore/errs"
)

// JSON writes a JSON response.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// Msg writes a {"msg": ...} body.
func Msg(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"msg": msg})
}

// Error converts err through the errs taxonomy into a status code and a
// {"msg": ...} body.
func Error(w http.ResponseWriter, err error) {
	Msg(w, errs.Status(err), errs.Message(err))
}
