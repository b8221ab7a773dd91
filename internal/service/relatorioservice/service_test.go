package relatorioservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"controlpet/internal/domain"
	apperror "controlpet/internal/errors"
	"controlpet/internal/pkg/logger"
	"controlpet/internal/service/relatorioservice"
)

// MockRelatorioRepository é uma implementação mock da interface RelatorioRepository
type MockRelatorioRepository struct {
	mock.Mock
}

func (m *MockRelatorioRepository) Save(ctx context.Context, relatorio domain.Relatorio) (domain.Relatorio, error) {
	args := m.Called(ctx, relatorio)
	return args.Get(0).(domain.Relatorio), args.Error(1)
}

func (m *MockRelatorioRepository) Update(ctx context.Context, relatorio domain.Relatorio) (domain.Relatorio, error) {
	args := m.Called(ctx, relatorio)
	return args.Get(0).(domain.Relatorio), args.Error(1)
}

func (m *MockRelatorioRepository) FindByID(ctx context.Context, id int) (domain.Relatorio, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Relatorio), args.Error(1)
}

func (m *MockRelatorioRepository) FindAll(ctx context.Context) ([]domain.Relatorio, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Relatorio), args.Error(1)
}

func (m *MockRelatorioRepository) FindAllByAlunoID(ctx context.Context, alunoID int) ([]domain.Relatorio, error) {
	args := m.Called(ctx, alunoID)
	return args.Get(0).([]domain.Relatorio), args.Error(1)
}

func (m *MockRelatorioRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRelatorioRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRelatorioRepository) ExistsByAlunoID(ctx context.Context, alunoID int) (bool, error) {
	args := m.Called(ctx, alunoID)
	return args.Bool(0), args.Error(1)
}

// MockAlunoRepository cobre o check de existência do aluno referenciado.
type MockAlunoRepository struct {
	mock.Mock
}

func (m *MockAlunoRepository) Save(ctx context.Context, aluno domain.Aluno) (domain.Aluno, error) {
	args := m.Called(ctx, aluno)
	return args.Get(0).(domain.Aluno), args.Error(1)
}

func (m *MockAlunoRepository) Update(ctx context.Context, aluno domain.Aluno) (domain.Aluno, error) {
	args := m.Called(ctx, aluno)
	return args.Get(0).(domain.Aluno), args.Error(1)
}

func (m *MockAlunoRepository) FindByID(ctx context.Context, id int) (domain.Aluno, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Aluno), args.Error(1)
}

func (m *MockAlunoRepository) FindAll(ctx context.Context) ([]domain.Aluno, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Aluno), args.Error(1)
}

func (m *MockAlunoRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAlunoRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockAlunoRepository) ExistsByUsuarioID(ctx context.Context, usuarioID int) (bool, error) {
	args := m.Called(ctx, usuarioID)
	return args.Bool(0), args.Error(1)
}

func novoRelatorioService() (*relatorioservice.Service, *MockRelatorioRepository, *MockAlunoRepository) {
	mockRelatorioRepo := new(MockRelatorioRepository)
	mockAlunoRepo := new(MockAlunoRepository)
	svc := relatorioservice.NewService(mockRelatorioRepo, mockAlunoRepo, logger.NewLogger("debug"))
	return svc, mockRelatorioRepo, mockAlunoRepo
}

func payloadValido() domain.RelatorioPayload {
	return domain.RelatorioPayload{
		AlunoID:          1,
		DataInicial:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DataFinal:        time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		ResumoAtividades: "Atividades do mês de março.",
		Comentarios:      "Sem intercorrências.",
	}
}

// TestCriarRelatorio_Success_TipoPadrao testa que o tipo omitido recebe o
// rótulo padrão do relatório mensal.
func TestCriarRelatorio_Success_TipoPadrao(t *testing.T) {
	svc, mockRelatorioRepo, mockAlunoRepo := novoRelatorioService()

	mockAlunoRepo.On("ExistsByID", mock.Anything, 1).Return(true, nil)
	mockRelatorioRepo.On("Save", mock.Anything, mock.MatchedBy(func(r domain.Relatorio) bool {
		return r.AlunoID == 1 && r.TipoRelatorio == domain.TipoRelatorioPadrao
	})).Return(domain.Relatorio{ID: 10, AlunoID: 1, TipoRelatorio: domain.TipoRelatorioPadrao}, nil)

	relatorio, err := svc.CriarRelatorio(context.Background(), payloadValido())

	assert.NoError(t, err)
	assert.Equal(t, 10, relatorio.ID)
	assert.Equal(t, domain.TipoRelatorioPadrao, relatorio.TipoRelatorio)
	mockRelatorioRepo.AssertExpectations(t)
}

// TestCriarRelatorio_Success_TipoExplicito testa que um tipo informado é
// mantido como veio.
func TestCriarRelatorio_Success_TipoExplicito(t *testing.T) {
	svc, mockRelatorioRepo, mockAlunoRepo := novoRelatorioService()

	payload := payloadValido()
	payload.TipoRelatorio = "Relatório Final"

	mockAlunoRepo.On("ExistsByID", mock.Anything, 1).Return(true, nil)
	mockRelatorioRepo.On("Save", mock.Anything, mock.MatchedBy(func(r domain.Relatorio) bool {
		return r.TipoRelatorio == "Relatório Final"
	})).Return(domain.Relatorio{ID: 11, AlunoID: 1, TipoRelatorio: "Relatório Final"}, nil)

	relatorio, err := svc.CriarRelatorio(context.Background(), payload)

	assert.NoError(t, err)
	assert.Equal(t, "Relatório Final", relatorio.TipoRelatorio)
}

// TestCriarRelatorio_Fail_AlunoInexistente testa NotFound para aluno ausente.
func TestCriarRelatorio_Fail_AlunoInexistente(t *testing.T) {
	svc, mockRelatorioRepo, mockAlunoRepo := novoRelatorioService()

	mockAlunoRepo.On("ExistsByID", mock.Anything, 1).Return(false, nil)

	_, err := svc.CriarRelatorio(context.Background(), payloadValido())

	assert.Error(t, err)
	var notFoundErr *apperror.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
	mockRelatorioRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCriarRelatorio_Fail_PeriodoInvertido testa a rejeição de data_final
// anterior à data_inicial.
func TestCriarRelatorio_Fail_PeriodoInvertido(t *testing.T) {
	svc, _, mockAlunoRepo := novoRelatorioService()

	payload := payloadValido()
	payload.DataInicial, payload.DataFinal = payload.DataFinal, payload.DataInicial

	_, err := svc.CriarRelatorio(context.Background(), payload)

	assert.Error(t, err)
	var validationErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	mockAlunoRepo.AssertNotCalled(t, "ExistsByID", mock.Anything, mock.Anything)
}

// TestListarPorAluno_Fail_AlunoInexistente testa NotFound no filtro por aluno.
func TestListarPorAluno_Fail_AlunoInexistente(t *testing.T) {
	svc, _, mockAlunoRepo := novoRelatorioService()

	mockAlunoRepo.On("ExistsByID", mock.Anything, 99).Return(false, nil)

	_, err := svc.ListarPorAluno(context.Background(), 99)

	assert.Error(t, err)
	var notFoundErr *apperror.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

// TestDeletarRelatorio_Success testa a deleção: o repositório recebe a ordem
// uma única vez e cuida da cascata na transação.
func TestDeletarRelatorio_Success(t *testing.T) {
	svc, mockRelatorioRepo, _ := novoRelatorioService()

	mockRelatorioRepo.On("ExistsByID", mock.Anything, 10).Return(true, nil)
	mockRelatorioRepo.On("Delete", mock.Anything, 10).Return(nil)

	err := svc.DeletarRelatorio(context.Background(), 10)

	assert.NoError(t, err)
	mockRelatorioRepo.AssertExpectations(t)
}

// TestDeletarRelatorio_Fail_Inexistente testa NotFound para relatório ausente.
func TestDeletarRelatorio_Fail_Inexistente(t *testing.T) {
	svc, mockRelatorioRepo, _ := novoRelatorioService()

	mockRelatorioRepo.On("ExistsByID", mock.Anything, 99).Return(false, nil)

	err := svc.DeletarRelatorio(context.Background(), 99)

	assert.Error(t, err)
	var notFoundErr *apperror.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
	mockRelatorioRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
