package aluno

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"controlpet/internal/domain"
	apperror "controlpet/internal/errors"
	"controlpet/internal/pkg/logger"
)

// AlunoService define o contrato das operações sobre Aluno.
type AlunoService interface {
	CriarAluno(ctx context.Context, payload domain.AlunoPayload) (domain.Aluno, error)
	ListarTodos(ctx context.Context) ([]domain.Aluno, error)
	BuscarPorID(ctx context.Context, id int) (domain.Aluno, error)
	AtualizarAluno(ctx context.Context, id int, payload domain.AlunoPayload) (domain.Aluno, error)
	DeletarAluno(ctx context.Context, id int) error
}

// Handler agrupa os métodos de Handler de Aluno.
type Handler struct {
	Service AlunoService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc AlunoService, log logger.Logger) *Handler {
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
		h.Logger.Error("Erro interno no serviço de aluno:", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	})
}

// pathID extrai e valida o ID numérico do path.
func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, apperror.NewValidationError("ID inválido no path.")
	}
	return id, nil
}

// CreateHandler lida com POST /v1/alunos.
// @Summary Cria o perfil de aluno de um usuário
// @Tags alunos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param aluno body domain.AlunoPayload true "Dados do aluno"
// @Success 201 {object} domain.Aluno
// @Failure 404 {object} domain.ErrorResponse "Usuário não encontrado"
// @Failure 409 {object} domain.ErrorResponse "Usuário já possui aluno"
// @Router /v1/alunos [post]
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var payload domain.AlunoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.handleServiceResponse(w, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusCreated)
		return
	}

	aluno, err := h.Service.CriarAluno(r.Context(), payload)
	h.handleServiceResponse(w, aluno, err, http.StatusCreated)
}

// ListHandler lida com GET /v1/alunos.
// @Summary Lista todos os alunos
// @Tags alunos
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Aluno
// @Router /v1/alunos [get]
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	alunos, err := h.Service.ListarTodos(r.Context())
	h.handleServiceResponse(w, alunos, err, http.StatusOK)
}

// GetByIDHandler lida com GET /v1/alunos/{id}.
// @Summary Busca um aluno pelo ID
// @Tags alunos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do aluno"
// @Success 200 {object} domain.Aluno
// @Failure 404 {object} domain.ErrorResponse "Aluno não encontrado"
// @Router /v1/alunos/{id} [get]
func (h *Handler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.handleServiceResponse(w, nil, err, http.StatusOK)
		return
	}

	aluno, err := h.Service.BuscarPorID(r.Context(), id)
	h.handleServiceResponse(w, aluno, err, http.StatusOK)
}

// UpdateHandler lida com PUT /v1/alunos/{id}.
// @Summary Atualiza um aluno
// @Tags alunos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do aluno"
// @Param aluno body domain.AlunoPayload true "Dados do aluno"
// @Success 200 {object} domain.Aluno
// @Failure 404 {object} domain.ErrorResponse "Aluno ou usuário não encontrado"
// @Failure 409 {object} domain.ErrorResponse "Usuário já possui aluno"
// @Router /v1/alunos/{id} [put]
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.handleServiceResponse(w, nil, err, http.StatusOK)
		return
	}

	var payload domain.AlunoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.handleServiceResponse(w, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	aluno, err := h.Service.AtualizarAluno(r.Context(), id, payload)
	h.handleServiceResponse(w, aluno, err, http.StatusOK)
}

// DeleteHandler lida com DELETE /v1/alunos/{id}.
// @Summary Deleta um aluno
// @Description Recusado enquanto o aluno tiver relatórios cadastrados.
// @Tags alunos
// @Security BearerAuth
// @Param id path int true "ID do aluno"
// @Success 204 "Aluno removido"
// @Failure 404 {object} domain.ErrorResponse "Aluno não encontrado"
// @Failure 409 {object} domain.ErrorResponse "Aluno possui relatórios"
// @Router /v1/alunos/{id} [delete]
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.handleServiceResponse(w, nil, err, http.StatusNoContent)
		return
	}

	err = h.Service.DeletarAluno(r.Context(), id)
	h.handleServiceResponse(w, nil, err, http.StatusNoContent)
}
