package alunoservice

import (
	"context"
	"fmt"

	"controlpet/internal/domain"
	apperror "controlpet/internal/errors"
	"controlpet/internal/pkg/logger"
)

// Service implementa a lógica de negócio da entidade Aluno: os guards de
// integridade referencial contra Usuario e Relatorio vivem aqui.
type Service struct {
	AlunoRepo     domain.AlunoRepository
	UsuarioRepo   domain.UsuarioRepository
	RelatorioRepo domain.RelatorioRepository
	Logger        logger.Logger
}

// NewService cria uma nova instância do serviço de Aluno.
func NewService(alunoRepo domain.AlunoRepository, usuarioRepo domain.UsuarioRepository, relatorioRepo domain.RelatorioRepository, log logger.Logger) *Service {
	return &Service{
		AlunoRepo:     alunoRepo,
		UsuarioRepo:   usuarioRepo,
		RelatorioRepo: relatorioRepo,
		Logger:        log,
	}
}

// CriarAluno cria o perfil de estudante de um Usuario existente.
// Usuario inexistente → NotFound; Usuario que já possui Aluno → Conflict;
// idade abaixo do mínimo ou tipo de estudante fora do enum → Validation.
func (s *Service) CriarAluno(ctx context.Context, payload domain.AlunoPayload) (domain.Aluno, error) {
	aluno, err := s.validarPayload(ctx, payload)
	if err != nil {
		return domain.Aluno{}, err
	}

	// Um aluno por usuário. O pré-check dá o erro amigável; a constraint
	// UNIQUE do banco cobre a corrida e produz o mesmo Conflict.
	possui, err := s.AlunoRepo.ExistsByUsuarioID(ctx, payload.UsuarioID)
	if err != nil {
		return domain.Aluno{}, err
	}
	if possui {
		return domain.Aluno{}, apperror.NewConflictError("Usuário já possui um aluno associado.")
	}

	criado, err := s.AlunoRepo.Save(ctx, aluno)
	if err != nil {
		return domain.Aluno{}, err
	}

	s.Logger.Info("Aluno criado.", map[string]interface{}{"aluno_id": criado.ID, "usuario_id": criado.UsuarioID})
	return criado, nil
}

// ListarTodos lista todos os alunos.
func (s *Service) ListarTodos(ctx context.Context) ([]domain.Aluno, error) {
	return s.AlunoRepo.FindAll(ctx)
}

// BuscarPorID busca um aluno pelo ID.
func (s *Service) BuscarPorID(ctx context.Context, id int) (domain.Aluno, error) {
	return s.AlunoRepo.FindByID(ctx, id)
}

// AtualizarAluno atualiza um aluno existente. Uma troca de usuario_id passa
// pelos mesmos checks de existência e unicidade da criação.
func (s *Service) AtualizarAluno(ctx context.Context, id int, payload domain.AlunoPayload) (domain.Aluno, error) {
	existente, err := s.AlunoRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Aluno{}, err
	}

	aluno, err := s.validarPayload(ctx, payload)
	if err != nil {
		return domain.Aluno{}, err
	}

	if payload.UsuarioID != existente.UsuarioID {
		possui, err := s.AlunoRepo.ExistsByUsuarioID(ctx, payload.UsuarioID)
		if err != nil {
			return domain.Aluno{}, err
		}
		if possui {
			return domain.Aluno{}, apperror.NewConflictError("Usuário já possui um aluno associado.")
		}
	}

	aluno.ID = existente.ID
	aluno.CriadoEm = existente.CriadoEm

	return s.AlunoRepo.Update(ctx, aluno)
}

// DeletarAluno remove um aluno. A remoção é recusada enquanto existirem
// relatórios referenciando o aluno: preferimos rejeitar a inventar uma
// cascata Aluno→Relatorio que o fluxo de deleção nunca definiu.
func (s *Service) DeletarAluno(ctx context.Context, id int) error {
	existe, err := s.AlunoRepo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !existe {
		return apperror.NewNotFoundError(fmt.Sprintf("Aluno com id %d não encontrado", id))
	}

	temRelatorios, err := s.RelatorioRepo.ExistsByAlunoID(ctx, id)
	if err != nil {
		return err
	}
	if temRelatorios {
		return apperror.NewConflictError("Aluno possui relatórios cadastrados; remova-os antes de deletar o aluno.")
	}

	return s.AlunoRepo.Delete(ctx, id)
}

// validarPayload valida os campos do payload e a existência do Usuario
// referenciado, devolvendo a entidade pronta para persistir.
func (s *Service) validarPayload(ctx context.Context, payload domain.AlunoPayload) (domain.Aluno, error) {
	if payload.UsuarioID <= 0 {
		return domain.Aluno{}, apperror.NewValidationError("usuario_id é obrigatório.")
	}
	if payload.Idade < domain.IdadeMinima {
		return domain.Aluno{}, apperror.NewValidationError(fmt.Sprintf("Idade mínima para cadastro é %d anos.", domain.IdadeMinima))
	}

	tipoEstudante, err := domain.ParseTipoEstudante(payload.TipoEstudante)
	if err != nil {
		return domain.Aluno{}, apperror.NewValidationError("Tipo de estudante inválido. Valores aceitos: bolsista, voluntario.")
	}

	existe, err := s.UsuarioRepo.ExistsByID(ctx, payload.UsuarioID)
	if err != nil {
		return domain.Aluno{}, err
	}
	if !existe {
		return domain.Aluno{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com id %d não encontrado", payload.UsuarioID))
	}

	return domain.Aluno{
		UsuarioID:      payload.UsuarioID,
		Idade:          payload.Idade,
		PeriodoAno:     payload.PeriodoAno,
		EditalIngresso: payload.EditalIngresso,
		TipoEstudante:  tipoEstudante,
		Curso:          payload.Curso,
	}, nil
}
