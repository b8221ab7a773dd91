package avaliacaoservice

import (
	"context"
	"fmt"

	"controlpet/internal/domain"
	apperror "controlpet/internal/errors"
	"controlpet/internal/pkg/logger"
)

// Service implementa a lógica de negócio da entidade AvaliacaoRelatorio.
type Service struct {
	AvaliacaoRepo domain.AvaliacaoRelatorioRepository
	RelatorioRepo domain.RelatorioRepository
	Logger        logger.Logger
}

// NewService cria uma nova instância do serviço de AvaliacaoRelatorio.
func NewService(avaliacaoRepo domain.AvaliacaoRelatorioRepository, relatorioRepo domain.RelatorioRepository, log logger.Logger) *Service {
	return &Service{
		AvaliacaoRepo: avaliacaoRepo,
		RelatorioRepo: relatorioRepo,
		Logger:        log,
	}
}

// CriarAvaliacao cria a avaliação de um relatório. Relatório inexistente →
// NotFound; relatório já avaliado → Conflict; critérios fora da escala →
// Validation.
func (s *Service) CriarAvaliacao(ctx context.Context, payload domain.AvaliacaoPayload) (domain.AvaliacaoRelatorio, error) {
	if payload.RelatorioID <= 0 {
		return domain.AvaliacaoRelatorio{}, apperror.NewValidationError("relatorio_id é obrigatório.")
	}

	criterios, err := parseCriterios(payload)
	if err != nil {
		return domain.AvaliacaoRelatorio{}, err
	}

	existe, err := s.RelatorioRepo.ExistsByID(ctx, payload.RelatorioID)
	if err != nil {
		return domain.AvaliacaoRelatorio{}, err
	}
	if !existe {
		return domain.AvaliacaoRelatorio{}, apperror.NewNotFoundError(fmt.Sprintf("Relatório com id %d não encontrado", payload.RelatorioID))
	}

	// Uma avaliação por relatório. O pré-check dá o erro amigável; a
	// constraint UNIQUE do banco cobre a corrida e produz o mesmo Conflict.
	avaliado, err := s.AvaliacaoRepo.ExistsByRelatorioID(ctx, payload.RelatorioID)
	if err != nil {
		return domain.AvaliacaoRelatorio{}, err
	}
	if avaliado {
		return domain.AvaliacaoRelatorio{}, apperror.NewConflictError(
			fmt.Sprintf("Já existe uma avaliação para o relatório com id %d.", payload.RelatorioID),
		)
	}

	avaliacao := domain.AvaliacaoRelatorio{
		RelatorioID:              payload.RelatorioID,
		CargaHoraria:             criterios.cargaHoraria,
		InteresseAtividades:      criterios.interesseAtividades,
		HabilidadesDesenvolvidas: criterios.habilidadesDesenvolvidas,
		OutrasInformacoes:        payload.OutrasInformacoes,
	}

	criada, err := s.AvaliacaoRepo.Save(ctx, avaliacao)
	if err != nil {
		return domain.AvaliacaoRelatorio{}, err
	}

	s.Logger.Info("Avaliação criada.", map[string]interface{}{"avaliacao_id": criada.ID, "relatorio_id": criada.RelatorioID})
	return criada, nil
}

// ListarTodas lista todas as avaliações.
func (s *Service) ListarTodas(ctx context.Context) ([]domain.AvaliacaoRelatorio, error) {
	return s.AvaliacaoRepo.FindAll(ctx)
}

// BuscarPorID busca uma avaliação pelo ID.
func (s *Service) BuscarPorID(ctx context.Context, id int) (domain.AvaliacaoRelatorio, error) {
	return s.AvaliacaoRepo.FindByID(ctx, id)
}

// BuscarPorRelatorioID busca a avaliação associada a um relatório.
func (s *Service) BuscarPorRelatorioID(ctx context.Context, relatorioID int) (domain.AvaliacaoRelatorio, error) {
	return s.AvaliacaoRepo.FindByRelatorioID(ctx, relatorioID)
}

// AtualizarAvaliacao atualiza os critérios e observações de uma avaliação
// existente. O relatório associado não muda: a relação um-para-um é imutável
// após a criação.
func (s *Service) AtualizarAvaliacao(ctx context.Context, id int, payload domain.AvaliacaoPayload) (domain.AvaliacaoRelatorio, error) {
	existente, err := s.AvaliacaoRepo.FindByID(ctx, id)
	if err != nil {
		return domain.AvaliacaoRelatorio{}, err
	}

	criterios, err := parseCriterios(payload)
	if err != nil {
		return domain.AvaliacaoRelatorio{}, err
	}

	existente.CargaHoraria = criterios.cargaHoraria
	existente.InteresseAtividades = criterios.interesseAtividades
	existente.HabilidadesDesenvolvidas = criterios.habilidadesDesenvolvidas
	existente.OutrasInformacoes = payload.OutrasInformacoes

	return s.AvaliacaoRepo.Update(ctx, existente)
}

// DeletarAvaliacao remove uma avaliação pelo ID.
func (s *Service) DeletarAvaliacao(ctx context.Context, id int) error {
	return s.AvaliacaoRepo.Delete(ctx, id)
}

type criteriosParsed struct {
	cargaHoraria             domain.CriterioAvaliacao
	interesseAtividades      domain.CriterioAvaliacao
	habilidadesDesenvolvidas domain.CriterioAvaliacao
}

// parseCriterios valida os três critérios contra a escala fixa.
func parseCriterios(payload domain.AvaliacaoPayload) (criteriosParsed, error) {
	var parsed criteriosParsed
	var err error

	if parsed.cargaHoraria, err = domain.ParseCriterioAvaliacao(payload.CargaHoraria); err != nil {
		return parsed, apperror.NewValidationError("carga_horaria inválida. Valores aceitos: RUIM, REGULAR, BOM, OTIMO.")
	}
	if parsed.interesseAtividades, err = domain.ParseCriterioAvaliacao(payload.InteresseAtividades); err != nil {
		return parsed, apperror.NewValidationError("interesse_atividades inválido. Valores aceitos: RUIM, REGULAR, BOM, OTIMO.")
	}
	if parsed.habilidadesDesenvolvidas, err = domain.ParseCriterioAvaliacao(payload.HabilidadesDesenvolvidas); err != nil {
		return parsed, apperror.NewValidationError("habilidades_desenvolvidas inválidas. Valores aceitos: RUIM, REGULAR, BOM, OTIMO.")
	}

	return parsed, nil
}
