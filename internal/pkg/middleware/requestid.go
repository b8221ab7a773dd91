package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader é o header usado para correlação de requisições nos logs.
const RequestIDHeader = "X-Request-Id"

// RequestID garante que toda requisição carregue um identificador de
// correlação. Se o cliente não enviar um, geramos um UUID novo; o valor é
// ecoado na resposta.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
