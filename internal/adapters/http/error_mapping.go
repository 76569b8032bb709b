package httpadapter

import (
	"net/http"

	"github.com/askai-uz/askai/internal/core/domain"
)

// synthesisFailureMessage is the user-facing body for a dead synthesis
// backend. Uzbek on purpose: the audience is the chat client, not an
// operator.
const synthesisFailureMessage = "Kechirasiz, hozir javob tayyorlab bera olmadim. Birozdan so'ng qayta urinib ko'ring."

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrQuestionNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrSynthesisFailed):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := mapErrorToHTTPStatus(err)
	message := err.Error()
	if domain.IsKind(err, domain.ErrSynthesisFailed) {
		message = synthesisFailureMessage
	}
	writeJSON(w, status, map[string]string{"error": message})
}
