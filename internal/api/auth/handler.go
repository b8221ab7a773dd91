package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"controlpet/internal/domain"
	apperror "controlpet/internal/errors"
	"controlpet/internal/pkg/logger"
	"controlpet/internal/pkg/middleware"
	"controlpet/internal/pkg/token"
)

// AuthService define o contrato das operações de autenticação e senha.
type AuthService interface {
	Register(ctx context.Context, registro domain.RegistroUsuario) (domain.Usuario, string, error)
	Login(ctx context.Context, email string, senha string) (domain.Usuario, string, error)
	Me(ctx context.Context, identity token.Identity) (domain.Usuario, error)
	ChangePassword(ctx context.Context, identity token.Identity, senhaAtual string, senhaNova string) error
	ResetPassword(ctx context.Context, identity token.Identity, targetID int) error
}

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// LoginResponse representa a resposta de login/registro bem-sucedidos.
type LoginResponse struct {
	Nome  string             `json:"nome"`
	Tipo  domain.TipoUsuario `json:"tipo"`
	Token string             `json:"token"`
}

// ChangePasswordRequest representa o payload de troca de senha.
type ChangePasswordRequest struct {
	SenhaAtual string `json:"senha_atual"`
	SenhaNova  string `json:"senha_nova"`
}

// Handler agrupa os métodos de Handler de autenticação.
type Handler struct {
	Service AuthService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc AuthService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse padroniza o tratamento de erros e respostas HTTP.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			json.NewEncoder(w).Encode(data)
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)
	if status >= 500 {
		h.Logger.Error("Erro interno no serviço de autenticação:", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	})
}

// RegisterHandler lida com POST /auth/register.
// @Summary Registra um novo usuário
// @Description Cria um novo usuário (tipo padrão: aluno), hasheia a senha e emite um JWT.
// @Tags auth
// @Accept json
// @Produce json
// @Param registro body domain.RegistroUsuario true "Dados de registro"
// @Success 201 {object} LoginResponse "Usuário criado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Email já cadastrado"
// @Router /auth/register [post]
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var registro domain.RegistroUsuario
	if err := json.NewDecoder(r.Body).Decode(&registro); err != nil {
		h.handleServiceResponse(w, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusCreated)
		return
	}

	usuario, tokenString, err := h.Service.Register(r.Context(), registro)
	if err != nil {
		h.handleServiceResponse(w, nil, err, http.StatusCreated)
		return
	}

	h.handleServiceResponse(w, LoginResponse{
		Nome:  usuario.Nome,
		Tipo:  usuario.Tipo,
		Token: tokenString,
	}, nil, http.StatusCreated)
}

// LoginHandler lida com POST /auth/login.
// @Summary Autentica um usuário e retorna um JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credenciais do usuário"
// @Success 200 {object} LoginResponse "Token JWT emitido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Router /auth/login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		h.handleServiceResponse(w, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	usuario, tokenString, err := h.Service.Login(r.Context(), loginReq.Email, loginReq.Senha)
	if err != nil {
		h.handleServiceResponse(w, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, LoginResponse{
		Nome:  usuario.Nome,
		Tipo:  usuario.Tipo,
		Token: tokenString,
	}, nil, http.StatusOK)
}

// MeHandler lida com GET /auth/me. A resposta vem do registro autoritativo
// do banco, não das claims do token.
// @Summary Dados do usuário autenticado
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Usuario
// @Failure 401 {object} domain.ErrorResponse "Credencial inválida"
// @Router /auth/me [get]
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}

	usuario, err := h.Service.Me(r.Context(), identity)
	if err != nil {
		h.handleServiceResponse(w, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, usuario, nil, http.StatusOK)
}

// ChangePasswordHandler lida com PUT /auth/change-password.
// @Summary Troca a senha do usuário autenticado
// @Description Exige a senha atual; senha atual incorreta resulta em 400, não 401.
// @Tags auth
// @Accept json
// @Security BearerAuth
// @Success 200 "Senha alterada"
// @Failure 400 {object} domain.ErrorResponse "Senha atual incorreta"
// @Failure 401 {object} domain.ErrorResponse "Credencial inválida"
// @Router /auth/change-password [put]
func (h *Handler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	err := h.Service.ChangePassword(r.Context(), identity, req.SenhaAtual, req.SenhaNova)
	h.handleServiceResponse(w, nil, err, http.StatusOK)
}

// ResetPasswordHandler lida com PUT /auth/reset-password/{id}.
// @Summary Reseta a senha de um usuário para o valor padrão
// @Description Restrito a orientadores. A senha do alvo vira o padrão documentado do sistema.
// @Tags auth
// @Security BearerAuth
// @Param id path int true "ID do usuário alvo"
// @Success 200 "Senha resetada"
// @Failure 403 {object} domain.ErrorResponse "Permissão insuficiente"
// @Failure 404 {object} domain.ErrorResponse "Usuário alvo não encontrado"
// @Router /auth/reset-password/{id} [put]
func (h *Handler) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}

	targetID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || targetID <= 0 {
		h.handleServiceResponse(w, nil, apperror.NewValidationError("ID do usuário alvo inválido."), http.StatusOK)
		return
	}

	err = h.Service.ResetPassword(r.Context(), identity, targetID)
	h.handleServiceResponse(w, nil, err, http.StatusOK)
}
