package authservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"controlpet/internal/domain"
	apperror "controlpet/internal/errors"
	"controlpet/internal/pkg/logger"
	"controlpet/internal/pkg/token"
	"controlpet/internal/service/authservice"
)

// MockUsuarioRepository é uma implementação mock da interface UsuarioRepository
type MockUsuarioRepository struct {
	mock.Mock
}

func (m *MockUsuarioRepository) Save(ctx context.Context, usuario domain.Usuario) (domain.Usuario, error) {
	args := m.Called(ctx, usuario)
	return args.Get(0).(domain.Usuario), args.Error(1)
}

func (m *MockUsuarioRepository) Update(ctx context.Context, usuario domain.Usuario) (domain.Usuario, error) {
	args := m.Called(ctx, usuario)
	return args.Get(0).(domain.Usuario), args.Error(1)
}

func (m *MockUsuarioRepository) FindByEmail(ctx context.Context, email string) (domain.Usuario, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.Usuario), args.Error(1)
}

func (m *MockUsuarioRepository) FindByID(ctx context.Context, id int) (domain.Usuario, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Usuario), args.Error(1)
}

func (m *MockUsuarioRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsuarioRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockHasher é uma implementação mock da interface PasswordHasher
type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Matches(plaintext string, hash string) bool {
	args := m.Called(plaintext, hash)
	return args.Bool(0)
}

// MockTokenService é uma implementação mock da interface TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(user domain.Usuario) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) DecodeIdentity(tokenString string) (token.Identity, error) {
	args := m.Called(tokenString)
	return args.Get(0).(token.Identity), args.Error(1)
}

func novoAuthService() (*authservice.AuthService, *MockUsuarioRepository, *MockHasher, *MockTokenService) {
	mockRepo := new(MockUsuarioRepository)
	mockHasher := new(MockHasher)
	mockToken := new(MockTokenService)
	svc := authservice.NewService(mockRepo, mockHasher, mockToken, logger.NewLogger("debug"))
	return svc, mockRepo, mockHasher, mockToken
}

// TestRegister_Success testa o registro com tipo omitido (padrão = aluno).
func TestRegister_Success(t *testing.T) {
	svc, mockRepo, mockHasher, mockToken := novoAuthService()

	registro := domain.RegistroUsuario{Nome: "João", Email: "joao@exemplo.com", Senha: "segredo"}
	salvo := domain.Usuario{ID: 1, Nome: "João", Email: "joao@exemplo.com", SenhaHash: "hash", Tipo: domain.TipoAluno}

	mockRepo.On("ExistsByEmail", mock.Anything, "joao@exemplo.com").Return(false, nil)
	mockHasher.On("Hash", "segredo").Return("hash", nil)
	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.Usuario) bool {
		return u.Email == "joao@exemplo.com" && u.Tipo == domain.TipoAluno && u.SenhaHash == "hash"
	})).Return(salvo, nil)
	mockToken.On("GenerateToken", salvo).Return("jwt-assinado", nil)

	usuario, tok, err := svc.Register(context.Background(), registro)

	assert.NoError(t, err)
	assert.Equal(t, 1, usuario.ID)
	assert.Equal(t, domain.TipoAluno, usuario.Tipo)
	assert.Equal(t, "jwt-assinado", tok)
	mockRepo.AssertExpectations(t)
	mockToken.AssertExpectations(t)
}

// TestRegister_Fail_EmailDuplicado testa o Conflict no pré-check de unicidade.
func TestRegister_Fail_EmailDuplicado(t *testing.T) {
	svc, mockRepo, _, _ := novoAuthService()

	mockRepo.On("ExistsByEmail", mock.Anything, "joao@exemplo.com").Return(true, nil)

	_, _, err := svc.Register(context.Background(), domain.RegistroUsuario{
		Nome: "João", Email: "joao@exemplo.com", Senha: "segredo",
	})

	assert.Error(t, err)
	var conflictErr *apperror.ConflictError
	assert.ErrorAs(t, err, &conflictErr)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestRegister_Fail_TipoInvalido testa que um tipo presente e não reconhecido
// é rejeitado em vez de virar o padrão.
func TestRegister_Fail_TipoInvalido(t *testing.T) {
	svc, mockRepo, _, _ := novoAuthService()

	_, _, err := svc.Register(context.Background(), domain.RegistroUsuario{
		Nome: "João", Email: "joao@exemplo.com", Senha: "segredo", Tipo: "administrador",
	})

	assert.Error(t, err)
	var validationErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	mockRepo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
}

// TestLogin_Success testa o fluxo de login feliz.
func TestLogin_Success(t *testing.T) {
	svc, mockRepo, mockHasher, mockToken := novoAuthService()

	usuario := domain.Usuario{ID: 1, Nome: "João", Email: "joao@exemplo.com", SenhaHash: "hash", Tipo: domain.TipoAluno}

	mockRepo.On("FindByEmail", mock.Anything, "joao@exemplo.com").Return(usuario, nil)
	mockHasher.On("Matches", "segredo", "hash").Return(true)
	mockToken.On("GenerateToken", usuario).Return("jwt-assinado", nil)

	logado, tok, err := svc.Login(context.Background(), "joao@exemplo.com", "segredo")

	assert.NoError(t, err)
	assert.Equal(t, usuario, logado)
	assert.Equal(t, "jwt-assinado", tok)
	mockRepo.AssertExpectations(t)
}

// TestLogin_Fail_UsuarioInexistente testa que NotFound vira Unauthorized, sem
// revelar quais emails existem.
func TestLogin_Fail_UsuarioInexistente(t *testing.T) {
	svc, mockRepo, _, _ := novoAuthService()

	mockRepo.On("FindByEmail", mock.Anything, "ninguem@exemplo.com").
		Return(domain.Usuario{}, apperror.NewNotFoundError("Usuário não encontrado."))

	_, _, err := svc.Login(context.Background(), "ninguem@exemplo.com", "segredo")

	assert.Error(t, err)
	var unauthorizedErr *apperror.UnauthorizedError
	assert.ErrorAs(t, err, &unauthorizedErr)
}

// TestLogin_Fail_SenhaErrada testa a rejeição de senha incorreta.
func TestLogin_Fail_SenhaErrada(t *testing.T) {
	svc, mockRepo, mockHasher, mockToken := novoAuthService()

	usuario := domain.Usuario{ID: 1, Email: "joao@exemplo.com", SenhaHash: "hash"}

	mockRepo.On("FindByEmail", mock.Anything, "joao@exemplo.com").Return(usuario, nil)
	mockHasher.On("Matches", "errada", "hash").Return(false)

	_, _, err := svc.Login(context.Background(), "joao@exemplo.com", "errada")

	assert.Error(t, err)
	var unauthorizedErr *apperror.UnauthorizedError
	assert.ErrorAs(t, err, &unauthorizedErr)
	mockToken.AssertNotCalled(t, "GenerateToken", mock.Anything)
}

// TestMe_Fail_IdentidadeSumida testa que identidade ausente do banco é tratada
// como credencial inválida, não como NotFound.
func TestMe_Fail_IdentidadeSumida(t *testing.T) {
	svc, mockRepo, _, _ := novoAuthService()

	mockRepo.On("FindByEmail", mock.Anything, "fantasma@exemplo.com").
		Return(domain.Usuario{}, apperror.NewNotFoundError("Usuário não encontrado."))

	_, err := svc.Me(context.Background(), token.Identity{Email: "fantasma@exemplo.com"})

	assert.Error(t, err)
	var unauthorizedErr *apperror.UnauthorizedError
	assert.ErrorAs(t, err, &unauthorizedErr)
}

// TestChangePassword_Success testa a troca de senha do próprio usuário.
func TestChangePassword_Success(t *testing.T) {
	svc, mockRepo, mockHasher, _ := novoAuthService()

	usuario := domain.Usuario{ID: 1, Email: "joao@exemplo.com", SenhaHash: "hash-antigo"}

	mockRepo.On("FindByEmail", mock.Anything, "joao@exemplo.com").Return(usuario, nil)
	mockHasher.On("Matches", "atual", "hash-antigo").Return(true)
	mockHasher.On("Hash", "nova").Return("hash-novo", nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u domain.Usuario) bool {
		return u.ID == 1 && u.SenhaHash == "hash-novo"
	})).Return(usuario, nil)

	err := svc.ChangePassword(context.Background(), token.Identity{Email: "joao@exemplo.com"}, "atual", "nova")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestChangePassword_Fail_SenhaAtualIncorreta testa que errar a senha atual é
// erro de validação e não altera o hash armazenado.
func TestChangePassword_Fail_SenhaAtualIncorreta(t *testing.T) {
	svc, mockRepo, mockHasher, _ := novoAuthService()

	usuario := domain.Usuario{ID: 1, Email: "joao@exemplo.com", SenhaHash: "hash-antigo"}

	mockRepo.On("FindByEmail", mock.Anything, "joao@exemplo.com").Return(usuario, nil)
	mockHasher.On("Matches", "errada", "hash-antigo").Return(false)

	err := svc.ChangePassword(context.Background(), token.Identity{Email: "joao@exemplo.com"}, "errada", "nova")

	assert.Error(t, err)
	var validationErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// TestResetPassword_Success testa o reset administrativo para a senha padrão.
func TestResetPassword_Success(t *testing.T) {
	svc, mockRepo, mockHasher, _ := novoAuthService()

	orientador := domain.Usuario{ID: 1, Email: "prof@exemplo.com", Tipo: domain.TipoOrientador}
	alvo := domain.Usuario{ID: 7, Email: "aluno@exemplo.com", SenhaHash: "hash-antigo", Tipo: domain.TipoAluno}

	mockRepo.On("FindByEmail", mock.Anything, "prof@exemplo.com").Return(orientador, nil)
	mockRepo.On("FindByID", mock.Anything, 7).Return(alvo, nil)
	mockHasher.On("Hash", authservice.SenhaPadraoReset).Return("hash-padrao", nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u domain.Usuario) bool {
		return u.ID == 7 && u.SenhaHash == "hash-padrao"
	})).Return(alvo, nil)

	err := svc.ResetPassword(context.Background(), token.Identity{Email: "prof@exemplo.com"}, 7)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestResetPassword_Fail_NaoOrientador testa que o papel é conferido no
// registro do banco, não na claim: um aluno recebe Forbidden.
func TestResetPassword_Fail_NaoOrientador(t *testing.T) {
	svc, mockRepo, _, _ := novoAuthService()

	aluno := domain.Usuario{ID: 2, Email: "aluno@exemplo.com", Tipo: domain.TipoAluno}
	mockRepo.On("FindByEmail", mock.Anything, "aluno@exemplo.com").Return(aluno, nil)

	// A claim diz orientador, mas o banco diz aluno: o banco vence.
	err := svc.ResetPassword(context.Background(), token.Identity{Email: "aluno@exemplo.com", Tipo: domain.TipoOrientador}, 7)

	assert.Error(t, err)
	var forbiddenErr *apperror.ForbiddenError
	assert.ErrorAs(t, err, &forbiddenErr)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// TestResetPassword_Fail_AlvoInexistente testa NotFound para o alvo do reset.
func TestResetPassword_Fail_AlvoInexistente(t *testing.T) {
	svc, mockRepo, _, _ := novoAuthService()

	orientador := domain.Usuario{ID: 1, Email: "prof@exemplo.com", Tipo: domain.TipoOrientador}
	mockRepo.On("FindByEmail", mock.Anything, "prof@exemplo.com").Return(orientador, nil)
	mockRepo.On("FindByID", mock.Anything, 99).
		Return(domain.Usuario{}, apperror.NewNotFoundError("Usuário não encontrado."))

	err := svc.ResetPassword(context.Background(), token.Identity{Email: "prof@exemplo.com"}, 99)

	assert.Error(t, err)
	var notFoundErr *apperror.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}
