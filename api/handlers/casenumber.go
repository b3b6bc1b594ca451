package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/incident-reports-api/casenumber"
)

// CaseNumberHandler splits a case number into its date and sequence
func CaseNumberHandler(w http.ResponseWriter, r *http.Request) {
	raw := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["case_number"]))

	cn, ok := casenumber.Parse(raw)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid case number")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"caseNumber": cn.String(),
		"parts":      cn,
	})
}
