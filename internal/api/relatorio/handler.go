package relatorio

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"controlpet/internal/domain"
	apperror "controlpet/internal/errors"
	"controlpet/internal/pkg/logger"
)

// RelatorioService define o contrato das operações sobre Relatorio.
type RelatorioService interface {
	CriarRelatorio(ctx context.Context, payload domain.RelatorioPayload) (domain.Relatorio, error)
	ListarTodos(ctx context.Context) ([]domain.Relatorio, error)
	ListarPorAluno(ctx context.Context, alunoID int) ([]domain.Relatorio, error)
	BuscarPorID(ctx context.Context, id int) (domain.Relatorio, error)
	AtualizarRelatorio(ctx context.Context, id int, payload domain.RelatorioPayload) (domain.Relatorio, error)
	DeletarRelatorio(ctx context.Context, id int) error
}

// Handler agrupa os métodos de Handler de Relatorio.
type Handler struct {
	Service RelatorioService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc RelatorioService, log logger.Logger) *Handler {
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
		h.Logger.Error("Erro interno no serviço de relatório:", err)
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

// CreateHandler lida com POST /v1/relatorios.
// @Summary Cria um relatório de atividades
// @Description O tipo do relatório recebe "Relatório Mensal" quando omitido.
// @Tags relatorios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param relatorio body domain.RelatorioPayload true "Dados do relatório"
// @Success 201 {object} domain.Relatorio
// @Failure 404 {object} domain.ErrorResponse "Aluno não encontrado"
// @Router /v1/relatorios [post]
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var payload domain.RelatorioPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.handleServiceResponse(w, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusCreated)
		return
	}

	relatorio, err := h.Service.CriarRelatorio(r.Context(), payload)
	h.handleServiceResponse(w, relatorio, err, http.StatusCreated)
}

// ListHandler lida com GET /v1/relatorios, com filtro opcional ?aluno_id=.
// @Summary Lista relatórios
// @Tags relatorios
// @Produce json
// @Security BearerAuth
// @Param aluno_id query int false "Filtra pelos relatórios de um aluno"
// @Success 200 {array} domain.Relatorio
// @Router /v1/relatorios [get]
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if alunoIDStr := r.URL.Query().Get("aluno_id"); alunoIDStr != "" {
		alunoID, err := strconv.Atoi(alunoIDStr)
		if err != nil || alunoID <= 0 {
			h.handleServiceResponse(w, nil, apperror.NewValidationError("aluno_id inválido."), http.StatusOK)
			return
		}
		relatorios, err := h.Service.ListarPorAluno(r.Context(), alunoID)
		h.handleServiceResponse(w, relatorios, err, http.StatusOK)
		return
	}

	relatorios, err := h.Service.ListarTodos(r.Context())
	h.handleServiceResponse(w, relatorios, err, http.StatusOK)
}

// GetByIDHandler lida com GET /v1/relatorios/{id}.
// @Summary Busca um relatório pelo ID
// @Tags relatorios
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do relatório"
// @Success 200 {object} domain.Relatorio
// @Failure 404 {object} domain.ErrorResponse "Relatório não encontrado"
// @Router /v1/relatorios/{id} [get]
func (h *Handler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.handleServiceResponse(w, nil, err, http.StatusOK)
		return
	}

	relatorio, err := h.Service.BuscarPorID(r.Context(), id)
	h.handleServiceResponse(w, relatorio, err, http.StatusOK)
}

// UpdateHandler lida com PUT /v1/relatorios/{id}.
// @Summary Atualiza um relatório
// @Tags relatorios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do relatório"
// @Param relatorio body domain.RelatorioPayload true "Dados do relatório"
// @Success 200 {object} domain.Relatorio
// @Failure 404 {object} domain.ErrorResponse "Relatório ou aluno não encontrado"
// @Router /v1/relatorios/{id} [put]
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.handleServiceResponse(w, nil, err, http.StatusOK)
		return
	}

	var payload domain.RelatorioPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.handleServiceResponse(w, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	relatorio, err := h.Service.AtualizarRelatorio(r.Context(), id, payload)
	h.handleServiceResponse(w, relatorio, err, http.StatusOK)
}

// DeleteHandler lida com DELETE /v1/relatorios/{id}.
// @Summary Deleta um relatório e sua avaliação associada
// @Description A avaliação associada (se houver) é removida na mesma transação, antes do relatório.
// @Tags relatorios
// @Security BearerAuth
// @Param id path int true "ID do relatório"
// @Success 204 "Relatório removido"
// @Failure 404 {object} domain.ErrorResponse "Relatório não encontrado"
// @Router /v1/relatorios/{id} [delete]
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.handleServiceResponse(w, nil, err, http.StatusNoContent)
		return
	}

	err = h.Service.DeletarRelatorio(r.Context(), id)
	h.handleServiceResponse(w, nil, err, http.StatusNoContent)
}
