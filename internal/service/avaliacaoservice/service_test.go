package avaliacaoservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"controlpet/internal/domain"
	apperror "controlpet/internal/errors"
	"controlpet/internal/pkg/logger"
	"controlpet/internal/service/avaliacaoservice"
)

// MockAvaliacaoRepository é uma implementação mock da interface AvaliacaoRelatorioRepository
type MockAvaliacaoRepository struct {
	mock.Mock
}

func (m *MockAvaliacaoRepository) Save(ctx context.Context, avaliacao domain.AvaliacaoRelatorio) (domain.AvaliacaoRelatorio, error) {
	args := m.Called(ctx, avaliacao)
	return args.Get(0).(domain.AvaliacaoRelatorio), args.Error(1)
}

func (m *MockAvaliacaoRepository) Update(ctx context.Context, avaliacao domain.AvaliacaoRelatorio) (domain.AvaliacaoRelatorio, error) {
	args := m.Called(ctx, avaliacao)
	return args.Get(0).(domain.AvaliacaoRelatorio), args.Error(1)
}

func (m *MockAvaliacaoRepository) FindByID(ctx context.Context, id int) (domain.AvaliacaoRelatorio, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.AvaliacaoRelatorio), args.Error(1)
}

func (m *MockAvaliacaoRepository) FindAll(ctx context.Context) ([]domain.AvaliacaoRelatorio, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.AvaliacaoRelatorio), args.Error(1)
}

func (m *MockAvaliacaoRepository) FindByRelatorioID(ctx context.Context, relatorioID int) (domain.AvaliacaoRelatorio, error) {
	args := m.Called(ctx, relatorioID)
	return args.Get(0).(domain.AvaliacaoRelatorio), args.Error(1)
}

func (m *MockAvaliacaoRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAvaliacaoRepository) ExistsByRelatorioID(ctx context.Context, relatorioID int) (bool, error) {
	args := m.Called(ctx, relatorioID)
	return args.Bool(0), args.Error(1)
}

// MockRelatorioRepository cobre o check de existência do relatório avaliado.
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

func novoAvaliacaoService() (*avaliacaoservice.Service, *MockAvaliacaoRepository, *MockRelatorioRepository) {
	mockAvaliacaoRepo := new(MockAvaliacaoRepository)
	mockRelatorioRepo := new(MockRelatorioRepository)
	svc := avaliacaoservice.NewService(mockAvaliacaoRepo, mockRelatorioRepo, logger.NewLogger("debug"))
	return svc, mockAvaliacaoRepo, mockRelatorioRepo
}

func payloadValido() domain.AvaliacaoPayload {
	return domain.AvaliacaoPayload{
		RelatorioID:              10,
		CargaHoraria:             "BOM",
		InteresseAtividades:      "OTIMO",
		HabilidadesDesenvolvidas: "REGULAR",
		OutrasInformacoes:        "Participação consistente nas reuniões.",
	}
}

// TestCriarAvaliacao_Success testa a criação de uma avaliação com critérios
// dentro da escala.
func TestCriarAvaliacao_Success(t *testing.T) {
	svc, mockAvaliacaoRepo, mockRelatorioRepo := novoAvaliacaoService()

	mockRelatorioRepo.On("ExistsByID", mock.Anything, 10).Return(true, nil)
	mockAvaliacaoRepo.On("ExistsByRelatorioID", mock.Anything, 10).Return(false, nil)
	mockAvaliacaoRepo.On("Save", mock.Anything, mock.MatchedBy(func(a domain.AvaliacaoRelatorio) bool {
		return a.RelatorioID == 10 &&
			a.CargaHoraria == domain.CriterioBom &&
			a.InteresseAtividades == domain.CriterioOtimo &&
			a.HabilidadesDesenvolvidas == domain.CriterioRegular
	})).Return(domain.AvaliacaoRelatorio{ID: 1, RelatorioID: 10}, nil)

	avaliacao, err := svc.CriarAvaliacao(context.Background(), payloadValido())

	assert.NoError(t, err)
	assert.Equal(t, 1, avaliacao.ID)
	mockAvaliacaoRepo.AssertExpectations(t)
}

// TestCriarAvaliacao_Fail_RelatorioInexistente testa NotFound para relatório
// ausente.
func TestCriarAvaliacao_Fail_RelatorioInexistente(t *testing.T) {
	svc, mockAvaliacaoRepo, mockRelatorioRepo := novoAvaliacaoService()

	mockRelatorioRepo.On("ExistsByID", mock.Anything, 10).Return(false, nil)

	_, err := svc.CriarAvaliacao(context.Background(), payloadValido())

	assert.Error(t, err)
	var notFoundErr *apperror.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
	mockAvaliacaoRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCriarAvaliacao_Fail_RelatorioJaAvaliado testa o Conflict de unicidade:
// um relatório sustenta no máximo uma avaliação.
func TestCriarAvaliacao_Fail_RelatorioJaAvaliado(t *testing.T) {
	svc, mockAvaliacaoRepo, mockRelatorioRepo := novoAvaliacaoService()

	mockRelatorioRepo.On("ExistsByID", mock.Anything, 10).Return(true, nil)
	mockAvaliacaoRepo.On("ExistsByRelatorioID", mock.Anything, 10).Return(true, nil)

	_, err := svc.CriarAvaliacao(context.Background(), payloadValido())

	assert.Error(t, err)
	var conflictErr *apperror.ConflictError
	assert.ErrorAs(t, err, &conflictErr)
	mockAvaliacaoRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCriarAvaliacao_Fail_CriterioForaDaEscala testa a rejeição de critério
// fora da escala fixa.
func TestCriarAvaliacao_Fail_CriterioForaDaEscala(t *testing.T) {
	svc, _, mockRelatorioRepo := novoAvaliacaoService()

	payload := payloadValido()
	payload.InteresseAtividades = "EXCELENTE"

	_, err := svc.CriarAvaliacao(context.Background(), payload)

	assert.Error(t, err)
	var validationErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	mockRelatorioRepo.AssertNotCalled(t, "ExistsByID", mock.Anything, mock.Anything)
}

// TestAtualizarAvaliacao_Success testa que a atualização troca os critérios
// mas preserva o relatório associado.
func TestAtualizarAvaliacao_Success(t *testing.T) {
	svc, mockAvaliacaoRepo, _ := novoAvaliacaoService()

	existente := domain.AvaliacaoRelatorio{
		ID:           1,
		RelatorioID:  10,
		CargaHoraria: domain.CriterioRuim,
	}

	payload := payloadValido()
	payload.RelatorioID = 99 // ignorado: a associação é imutável

	mockAvaliacaoRepo.On("FindByID", mock.Anything, 1).Return(existente, nil)
	mockAvaliacaoRepo.On("Update", mock.Anything, mock.MatchedBy(func(a domain.AvaliacaoRelatorio) bool {
		return a.ID == 1 && a.RelatorioID == 10 && a.CargaHoraria == domain.CriterioBom
	})).Return(domain.AvaliacaoRelatorio{ID: 1, RelatorioID: 10, CargaHoraria: domain.CriterioBom}, nil)

	atualizada, err := svc.AtualizarAvaliacao(context.Background(), 1, payload)

	assert.NoError(t, err)
	assert.Equal(t, 10, atualizada.RelatorioID)
	mockAvaliacaoRepo.AssertExpectations(t)
}

// TestAtualizarAvaliacao_Fail_Inexistente testa NotFound na atualização.
func TestAtualizarAvaliacao_Fail_Inexistente(t *testing.T) {
	svc, mockAvaliacaoRepo, _ := novoAvaliacaoService()

	mockAvaliacaoRepo.On("FindByID", mock.Anything, 99).
		Return(domain.AvaliacaoRelatorio{}, apperror.NewNotFoundError("Avaliação não encontrada."))

	_, err := svc.AtualizarAvaliacao(context.Background(), 99, payloadValido())

	assert.Error(t, err)
	var notFoundErr *apperror.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
	mockAvaliacaoRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
