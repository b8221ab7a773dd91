package router

import (
	"net/http"
	"time"

	"controlpet/internal/api/aluno"
	"controlpet/internal/api/auth"
	"controlpet/internal/api/avaliacao"
	"controlpet/internal/api/relatorio"
	"controlpet/internal/domain"
	"controlpet/internal/pkg/cache"
	"controlpet/internal/pkg/middleware"
)

// RateLimitConfig agrupa os parâmetros do rate limiter global.
type RateLimitConfig struct {
	MaxRequests int
	Period      time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
func NewRouter(
	authHandler *auth.Handler,
	alunoHandler *aluno.Handler,
	relatorioHandler *relatorio.Handler,
	avaliacaoHandler *avaliacao.Handler,
	tokenSvc middleware.TokenService,
	cacheClient cache.Client,
	rateLimit RateLimitConfig,
) http.Handler {

	// ServeMux padrão do net/http com roteamento por método e path.
	mux := http.NewServeMux()

	// Middlewares de autenticação/autorização por rota. O gate de orientador
	// cobre as operações administrativas: reset de senha e o ciclo de vida
	// das avaliações.
	autenticado := middleware.NewAuthMiddleware(tokenSvc)
	somenteOrientador := func(next http.HandlerFunc) http.HandlerFunc {
		return autenticado(middleware.RequireTipo(domain.TipoOrientador)(next))
	}

	// --- 1. Health Check ---
	mux.HandleFunc("GET /ping", PingHandler)

	// --- 2. Autenticação ---
	mux.HandleFunc("POST /auth/register", authHandler.RegisterHandler)
	mux.HandleFunc("POST /auth/login", authHandler.LoginHandler)
	mux.HandleFunc("GET /auth/me", autenticado(authHandler.MeHandler))
	mux.HandleFunc("PUT /auth/change-password", autenticado(authHandler.ChangePasswordHandler))
	mux.HandleFunc("PUT /auth/reset-password/{id}", somenteOrientador(authHandler.ResetPasswordHandler))

	// --- 3. Alunos ---
	mux.HandleFunc("POST /v1/alunos", autenticado(alunoHandler.CreateHandler))
	mux.HandleFunc("GET /v1/alunos", autenticado(alunoHandler.ListHandler))
	mux.HandleFunc("GET /v1/alunos/{id}", autenticado(alunoHandler.GetByIDHandler))
	mux.HandleFunc("PUT /v1/alunos/{id}", autenticado(alunoHandler.UpdateHandler))
	mux.HandleFunc("DELETE /v1/alunos/{id}", autenticado(alunoHandler.DeleteHandler))

	// --- 4. Relatórios ---
	mux.HandleFunc("POST /v1/relatorios", autenticado(relatorioHandler.CreateHandler))
	mux.HandleFunc("GET /v1/relatorios", autenticado(relatorioHandler.ListHandler))
	mux.HandleFunc("GET /v1/relatorios/{id}", autenticado(relatorioHandler.GetByIDHandler))
	mux.HandleFunc("PUT /v1/relatorios/{id}", autenticado(relatorioHandler.UpdateHandler))
	mux.HandleFunc("DELETE /v1/relatorios/{id}", autenticado(relatorioHandler.DeleteHandler))

	// --- 5. Avaliações de Relatório ---
	mux.HandleFunc("POST /v1/avaliacoes", somenteOrientador(avaliacaoHandler.CreateHandler))
	mux.HandleFunc("GET /v1/avaliacoes", autenticado(avaliacaoHandler.ListHandler))
	mux.HandleFunc("GET /v1/avaliacoes/{id}", autenticado(avaliacaoHandler.GetByIDHandler))
	mux.HandleFunc("GET /v1/avaliacoes/relatorio/{id}", autenticado(avaliacaoHandler.GetByRelatorioHandler))
	mux.HandleFunc("PUT /v1/avaliacoes/{id}", somenteOrientador(avaliacaoHandler.UpdateHandler))
	mux.HandleFunc("DELETE /v1/avaliacoes/{id}", somenteOrientador(avaliacaoHandler.DeleteHandler))

	// --- 6. Middlewares globais ---
	var handler http.Handler = mux
	handler = middleware.RateLimiter(cacheClient, rateLimit.MaxRequests, rateLimit.Period)(handler)
	handler = middleware.RequestID(handler)

	return handler
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
