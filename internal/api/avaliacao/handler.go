package avaliacao

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"controlpet/internal/domain"
	apperror "controlpet/internal/errors"
	"controlpet/internal/pkg/logger"
)

// AvaliacaoService define o contrato das operações sobre AvaliacaoRelatorio.
type AvaliacaoService interface {
	CriarAvaliacao(ctx context.Context, payload domain.AvaliacaoPayload) (domain.AvaliacaoRelatorio, error)
	ListarTodas(ctx context.Context) ([]domain.AvaliacaoRelatorio, error)
	BuscarPorID(ctx context.Context, id int) (domain.AvaliacaoRelatorio, error)
	BuscarPorRelatorioID(ctx context.Context, relatorioID int) (domain.AvaliacaoRelatorio, error)
	AtualizarAvaliacao(ctx context.Context, id int, payload domain.AvaliacaoPayload) (domain.AvaliacaoRelatorio, error)
	DeletarAvaliacao(ctx context.Context, id int) error
}

// Handler agrupa os métodos de Handler de AvaliacaoRelatorio.
type Handler struct {
	Service AvaliacaoService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc AvaliacaoService, log logger.Logger) *Handler {
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
		h.Logger.Error("Erro interno no serviço de avaliação:", err)
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

// CreateHandler lida com POST /v1/avaliacoes.
// @Summary Cria a avaliação de um relatório
// @Description Cada relatório aceita no máximo uma avaliação.
// @Tags avaliacoes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param avaliacao body domain.AvaliacaoPayload true "Dados da avaliação"
// @Success 201 {object} domain.AvaliacaoRelatorio
// @Failure 404 {object} domain.ErrorResponse "Relatório não encontrado"
// @Failure 409 {object} domain.ErrorResponse "Relatório já avaliado"
// @Router /v1/avaliacoes [post]
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var payload domain.AvaliacaoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.handleServiceResponse(w, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusCreated)
		return
	}

	avaliacao, err := h.Service.CriarAvaliacao(r.Context(), payload)
	h.handleServiceResponse(w, avaliacao, err, http.StatusCreated)
}

// ListHandler lida com GET /v1/avaliacoes.
// @Summary Lista todas as avaliações
// @Tags avaliacoes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.AvaliacaoRelatorio
// @Router /v1/avaliacoes [get]
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	avaliacoes, err := h.Service.ListarTodas(r.Context())
	h.handleServiceResponse(w, avaliacoes, err, http.StatusOK)
}

// GetByIDHandler lida com GET /v1/avaliacoes/{id}.
// @Summary Busca uma avaliação pelo ID
// @Tags avaliacoes
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da avaliação"
// @Success 200 {object} domain.AvaliacaoRelatorio
// @Failure 404 {object} domain.ErrorResponse "Avaliação não encontrada"
// @Router /v1/avaliacoes/{id} [get]
func (h *Handler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.handleServiceResponse(w, nil, err, http.StatusOK)
		return
	}

	avaliacao, err := h.Service.BuscarPorID(r.Context(), id)
	h.handleServiceResponse(w, avaliacao, err, http.StatusOK)
}

// GetByRelatorioHandler lida com GET /v1/avaliacoes/relatorio/{id}.
// @Summary Busca a avaliação associada a um relatório
// @Tags avaliacoes
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do relatório"
// @Success 200 {object} domain.AvaliacaoRelatorio
// @Failure 404 {object} domain.ErrorResponse "Avaliação não encontrada para o relatório"
// @Router /v1/avaliacoes/relatorio/{id} [get]
func (h *Handler) GetByRelatorioHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.handleServiceResponse(w, nil, err, http.StatusOK)
		return
	}

	avaliacao, err := h.Service.BuscarPorRelatorioID(r.Context(), id)
	h.handleServiceResponse(w, avaliacao, err, http.StatusOK)
}

// UpdateHandler lida com PUT /v1/avaliacoes/{id}.
// @Summary Atualiza uma avaliação
// @Description O relatório associado não pode ser trocado após a criação.
// @Tags avaliacoes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da avaliação"
// @Param avaliacao body domain.AvaliacaoPayload true "Dados da avaliação"
// @Success 200 {object} domain.AvaliacaoRelatorio
// @Failure 404 {object} domain.ErrorResponse "Avaliação não encontrada"
// @Router /v1/avaliacoes/{id} [put]
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.handleServiceResponse(w, nil, err, http.StatusOK)
		return
	}

	var payload domain.AvaliacaoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.handleServiceResponse(w, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	avaliacao, err := h.Service.AtualizarAvaliacao(r.Context(), id, payload)
	h.handleServiceResponse(w, avaliacao, err, http.StatusOK)
}

// DeleteHandler lida com DELETE /v1/avaliacoes/{id}.
// @Summary Deleta uma avaliação
// @Tags avaliacoes
// @Security BearerAuth
// @Param id path int true "ID da avaliação"
// @Success 204 "Avaliação removida"
// @Failure 404 {object} domain.ErrorResponse "Avaliação não encontrada"
// @Router /v1/avaliacoes/{id} [delete]
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.handleServiceResponse(w, nil, err, http.StatusNoContent)
		return
	}

	err = h.Service.DeletarAvaliacao(r.Context(), id)
	h.handleServiceResponse(w, nil, err, http.StatusNoContent)
}
