package authservice

import (
	"context"
	"errors"

	"controlpet/internal/domain"
	apperror "controlpet/internal/errors"
	"controlpet/internal/pkg/hash"
	"controlpet/internal/pkg/logger"
	"controlpet/internal/pkg/token"
)

// SenhaPadraoReset é a senha fixa aplicada pelo reset administrativo.
// O valor é deliberadamente um literal documentado, não configurável por
// chamada: o orientador comunica a senha padrão ao aluno, que deve trocá-la
// no primeiro acesso.
const SenhaPadraoReset = "Senha123"

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(user domain.Usuario) (string, error)
	DecodeIdentity(tokenString string) (token.Identity, error)
}

// AuthService concentra registro, login e as operações de senha.
// Todas as dependências chegam por construtor; não há singletons ambientes.
type AuthService struct {
	UsuarioRepo domain.UsuarioRepository
	Hasher      hash.PasswordHasher
	TokenSvc    TokenService
	Logger      logger.Logger
}

// NewService cria uma nova instância do AuthService.
func NewService(repo domain.UsuarioRepository, hasher hash.PasswordHasher, tokenSvc TokenService, log logger.Logger) *AuthService {
	return &AuthService{
		UsuarioRepo: repo,
		Hasher:      hasher,
		TokenSvc:    tokenSvc,
		Logger:      log,
	}
}

// Register registra um novo usuário e já emite um token para ele.
// Email duplicado resulta em Conflict; tipo ausente vira "aluno" (padrão de
// registro), mas um tipo presente e não reconhecido é rejeitado.
func (s *AuthService) Register(ctx context.Context, registro domain.RegistroUsuario) (domain.Usuario, string, error) {
	// 1. Validação básica
	if registro.Nome == "" || registro.Email == "" || registro.Senha == "" {
		return domain.Usuario{}, "", apperror.NewValidationError("Nome, email e senha são obrigatórios.")
	}

	tipo := domain.TipoAluno
	if registro.Tipo != "" {
		parsed, err := domain.ParseTipoUsuario(registro.Tipo)
		if err != nil {
			return domain.Usuario{}, "", apperror.NewValidationError("Tipo de usuário inválido. Valores aceitos: aluno, orientador.")
		}
		tipo = parsed
	}

	// 2. Pré-check de unicidade do email. A constraint UNIQUE do banco cobre
	// a corrida entre o check e o insert; o repositório traduz a violação
	// para o mesmo Conflict.
	exists, err := s.UsuarioRepo.ExistsByEmail(ctx, registro.Email)
	if err != nil {
		return domain.Usuario{}, "", err
	}
	if exists {
		return domain.Usuario{}, "", apperror.NewConflictError("Email já cadastrado.")
	}

	// 3. Hashing da senha
	senhaHash, err := s.Hasher.Hash(registro.Senha)
	if err != nil {
		return domain.Usuario{}, "", apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	novoUsuario := domain.Usuario{
		Nome:      registro.Nome,
		Email:     registro.Email,
		SenhaHash: senhaHash,
		Tipo:      tipo,
	}

	usuario, err := s.UsuarioRepo.Save(ctx, novoUsuario)
	if err != nil {
		return domain.Usuario{}, "", err
	}

	// 4. Emite o token de boas-vindas
	tokenString, err := s.TokenSvc.GenerateToken(usuario)
	if err != nil {
		return domain.Usuario{}, "", apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.Logger.Info("Usuário registrado.", map[string]interface{}{"user_id": usuario.ID, "tipo": string(usuario.Tipo)})
	return usuario, tokenString, nil
}

// Login autentica um usuário, verifica a senha e gera um JWT.
func (s *AuthService) Login(ctx context.Context, email string, senha string) (domain.Usuario, string, error) {
	if email == "" || senha == "" {
		return domain.Usuario{}, "", apperror.NewUnauthorizedError("Email e senha são obrigatórios.")
	}

	usuario, err := s.UsuarioRepo.FindByEmail(ctx, email)
	if err != nil {
		// NotFound vira Unauthorized para não revelar quais emails existem.
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return domain.Usuario{}, "", apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return domain.Usuario{}, "", err
	}

	if !s.Hasher.Matches(senha, usuario.SenhaHash) {
		return domain.Usuario{}, "", apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	tokenString, err := s.TokenSvc.GenerateToken(usuario)
	if err != nil {
		return domain.Usuario{}, "", apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	return usuario, tokenString, nil
}

// Me resolve a identidade autenticada para o registro autoritativo do banco.
// O token é apenas um retrato do momento da emissão; o registro do banco é
// que vale para qualquer decisão posterior. Identidade sumida do banco é
// tratada como credencial inválida.
func (s *AuthService) Me(ctx context.Context, identity token.Identity) (domain.Usuario, error) {
	usuario, err := s.UsuarioRepo.FindByEmail(ctx, identity.Email)
	if err != nil {
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return domain.Usuario{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return domain.Usuario{}, err
	}
	return usuario, nil
}

// ChangePassword troca a senha do próprio usuário autenticado. A senha atual
// é re-verificada contra o hash armazenado; senha atual incorreta é erro de
// validação (400), não falha de autenticação — o chamador está autenticado,
// apenas errou a asserção da senha vigente.
func (s *AuthService) ChangePassword(ctx context.Context, identity token.Identity, senhaAtual string, senhaNova string) error {
	if senhaAtual == "" || senhaNova == "" {
		return apperror.NewValidationError("Senha atual e nova senha são obrigatórias.")
	}

	usuario, err := s.Me(ctx, identity)
	if err != nil {
		return err
	}

	if !s.Hasher.Matches(senhaAtual, usuario.SenhaHash) {
		return apperror.NewValidationError("Senha atual incorreta.")
	}

	novoHash, err := s.Hasher.Hash(senhaNova)
	if err != nil {
		return apperror.NewInternalError("Falha ao gerar hash da nova senha.", err)
	}

	usuario.SenhaHash = novoHash
	if _, err := s.UsuarioRepo.Update(ctx, usuario); err != nil {
		return err
	}

	s.Logger.Info("Senha alterada pelo próprio usuário.", map[string]interface{}{"user_id": usuario.ID})
	return nil
}

// ResetPassword reseta a senha de um usuário alvo para o valor padrão
// documentado. Operação restrita a orientadores; o papel é conferido no
// registro autoritativo do banco, nunca apenas na claim do token.
// Tokens já emitidos para o alvo continuam válidos até expirarem (≤2h);
// essa janela é aceita neste design.
func (s *AuthService) ResetPassword(ctx context.Context, identity token.Identity, targetID int) error {
	ator, err := s.Me(ctx, identity)
	if err != nil {
		return err
	}

	if ator.Tipo != domain.TipoOrientador {
		s.Logger.Info("Reset de senha negado: usuário não é orientador.", map[string]interface{}{"user_id": ator.ID})
		return apperror.NewForbiddenError("Apenas orientadores podem resetar senhas.")
	}

	alvo, err := s.UsuarioRepo.FindByID(ctx, targetID)
	if err != nil {
		return err
	}

	novoHash, err := s.Hasher.Hash(SenhaPadraoReset)
	if err != nil {
		return apperror.NewInternalError("Falha ao gerar hash da senha padrão.", err)
	}

	alvo.SenhaHash = novoHash
	if _, err := s.UsuarioRepo.Update(ctx, alvo); err != nil {
		return err
	}

	s.Logger.Info("Senha resetada para o padrão.", map[string]interface{}{"target_id": alvo.ID, "por": ator.ID})
	return nil
}
