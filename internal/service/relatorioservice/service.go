package relatorioservice

import (
	"context"
	"fmt"

	"controlpet/internal/domain"
	apperror "controlpet/internal/errors"
	"controlpet/internal/pkg/logger"
)

// Service implementa a lógica de negócio da entidade Relatorio, incluindo a
// deleção em cascata da avaliação associada.
type Service struct {
	RelatorioRepo domain.RelatorioRepository
	AlunoRepo     domain.AlunoRepository
	Logger        logger.Logger
}

// NewService cria uma nova instância do serviço de Relatorio.
func NewService(relatorioRepo domain.RelatorioRepository, alunoRepo domain.AlunoRepository, log logger.Logger) *Service {
	return &Service{
		RelatorioRepo: relatorioRepo,
		AlunoRepo:     alunoRepo,
		Logger:        log,
	}
}

// CriarRelatorio cria um relatório para um Aluno existente. Aluno inexistente
// → NotFound. O tipo do relatório recebe o rótulo padrão quando omitido.
func (s *Service) CriarRelatorio(ctx context.Context, payload domain.RelatorioPayload) (domain.Relatorio, error) {
	relatorio, err := s.validarPayload(ctx, payload)
	if err != nil {
		return domain.Relatorio{}, err
	}

	criado, err := s.RelatorioRepo.Save(ctx, relatorio)
	if err != nil {
		return domain.Relatorio{}, err
	}

	s.Logger.Info("Relatório criado.", map[string]interface{}{"relatorio_id": criado.ID, "aluno_id": criado.AlunoID})
	return criado, nil
}

// ListarTodos lista todos os relatórios.
func (s *Service) ListarTodos(ctx context.Context) ([]domain.Relatorio, error) {
	return s.RelatorioRepo.FindAll(ctx)
}

// ListarPorAluno lista os relatórios de um aluno específico.
func (s *Service) ListarPorAluno(ctx context.Context, alunoID int) ([]domain.Relatorio, error) {
	existe, err := s.AlunoRepo.ExistsByID(ctx, alunoID)
	if err != nil {
		return nil, err
	}
	if !existe {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Aluno com id %d não encontrado", alunoID))
	}
	return s.RelatorioRepo.FindAllByAlunoID(ctx, alunoID)
}

// BuscarPorID busca um relatório pelo ID.
func (s *Service) BuscarPorID(ctx context.Context, id int) (domain.Relatorio, error) {
	return s.RelatorioRepo.FindByID(ctx, id)
}

// AtualizarRelatorio atualiza um relatório existente. Uma troca de aluno_id
// passa pelo mesmo check de existência da criação.
func (s *Service) AtualizarRelatorio(ctx context.Context, id int, payload domain.RelatorioPayload) (domain.Relatorio, error) {
	existente, err := s.RelatorioRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Relatorio{}, err
	}

	relatorio, err := s.validarPayload(ctx, payload)
	if err != nil {
		return domain.Relatorio{}, err
	}

	relatorio.ID = existente.ID
	relatorio.CriadoEm = existente.CriadoEm

	return s.RelatorioRepo.Update(ctx, relatorio)
}

// DeletarRelatorio remove um relatório e sua avaliação associada. A cascata
// roda em uma única transação no repositório: primeiro a avaliação (zero
// avaliações não é erro), depois o relatório, tudo-ou-nada.
func (s *Service) DeletarRelatorio(ctx context.Context, id int) error {
	existe, err := s.RelatorioRepo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !existe {
		return apperror.NewNotFoundError(fmt.Sprintf("Relatório com id %d não encontrado", id))
	}

	if err := s.RelatorioRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.Logger.Info("Relatório deletado (com avaliação associada, se houver).", map[string]interface{}{"relatorio_id": id})
	return nil
}

// validarPayload valida os campos do payload e a existência do Aluno
// referenciado, devolvendo a entidade pronta para persistir.
func (s *Service) validarPayload(ctx context.Context, payload domain.RelatorioPayload) (domain.Relatorio, error) {
	if payload.AlunoID <= 0 {
		return domain.Relatorio{}, apperror.NewValidationError("aluno_id é obrigatório.")
	}
	if payload.DataInicial.IsZero() || payload.DataFinal.IsZero() {
		return domain.Relatorio{}, apperror.NewValidationError("data_inicial e data_final são obrigatórias.")
	}
	if payload.DataFinal.Before(payload.DataInicial) {
		return domain.Relatorio{}, apperror.NewValidationError("data_final não pode ser anterior à data_inicial.")
	}

	existe, err := s.AlunoRepo.ExistsByID(ctx, payload.AlunoID)
	if err != nil {
		return domain.Relatorio{}, err
	}
	if !existe {
		return domain.Relatorio{}, apperror.NewNotFoundError(fmt.Sprintf("Aluno com id %d não encontrado", payload.AlunoID))
	}

	tipo := payload.TipoRelatorio
	if tipo == "" {
		tipo = domain.TipoRelatorioPadrao
	}

	return domain.Relatorio{
		AlunoID:          payload.AlunoID,
		TipoRelatorio:    tipo,
		DataInicial:      payload.DataInicial,
		DataFinal:        payload.DataFinal,
		DataEnvio:        payload.DataEnvio,
		ResumoAtividades: payload.ResumoAtividades,
		Comentarios:      payload.Comentarios,
	}, nil
}
