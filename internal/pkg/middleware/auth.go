package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"controlpet/internal/domain"
	apperror "controlpet/internal/errors"
	"controlpet/internal/pkg/token"
)

// ContextKey é o tipo das chaves de contexto deste pacote. Usamos um tipo
// próprio não-exportado nas constantes para não colidir com chaves string
// de outros pacotes.
type ContextKey int

const (
	// IdentityKey é a chave usada para armazenar a identidade decodificada
	// do token no contexto da requisição.
	IdentityKey ContextKey = iota
)

// TokenService define o contrato de decodificação necessário para o middleware.
type TokenService interface {
	DecodeIdentity(tokenString string) (token.Identity, error)
}

// NewAuthMiddleware cria um middleware que exige uma credencial Bearer,
// decodifica o JWT e anexa a identidade embutida ao contexto da requisição.
//
// Todas as falhas colapsam em 401: header ausente, esquema malformado,
// assinatura inválida, emissor errado, token expirado ou claim de tipo fora
// do enum. O motivo específico nunca é exposto ao cliente.
//
// A identidade anexada vem apenas das claims; handlers que tomam decisões
// sensíveis rebuscam o registro autoritativo no banco.
func NewAuthMiddleware(tokenSvc TokenService) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			// 1. Extrair o token do header Authorization: Bearer <token>
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, apperror.NewUnauthorizedError("Credencial de autorização ausente ou malformada."))
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			// 2. Validar e decodificar
			identity, err := tokenSvc.DecodeIdentity(tokenString)
			if err != nil {
				writeAuthError(w, apperror.NewUnauthorizedError("Token inválido ou expirado."))
				return
			}

			// 3. Anexar a identidade ao contexto
			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// IdentityFromContext extrai a identidade anexada pelo middleware de autenticação.
func IdentityFromContext(ctx context.Context) (token.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(token.Identity)
	return identity, ok
}

// RequireTipo cria um middleware de autorização que exige que a identidade
// autenticada possua um dos papéis informados. Deve ser encadeado após o
// NewAuthMiddleware.
func RequireTipo(tiposPermitidos ...domain.TipoUsuario) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				// O middleware de autenticação não rodou ou falhou em anexar
				// a identidade; falha fechada.
				writeAuthError(w, apperror.NewUnauthorizedError("Autorização necessária. Token não processado."))
				return
			}

			for _, tipo := range tiposPermitidos {
				if identity.Tipo == tipo {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeAuthError(w, apperror.NewForbiddenError("Você não tem a permissão necessária."))
		}
	}
}

// writeAuthError serializa um AppError de autenticação/autorização como
// resposta JSON padronizada.
func writeAuthError(w http.ResponseWriter, err apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus())
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     err.HTTPStatus(),
		Category: err.Category(),
		Message:  err.Error(),
	})
}
