package domain

import (
	"context"
	"fmt"
	"time"
)

// Usuario representa a entidade de identidade do sistema.
type Usuario struct {
	ID           int         `json:"id"`
	Nome         string      `json:"nome"`
	Email        string      `json:"email"`
	SenhaHash    string      `json:"-"` // Oculta o hash da senha no JSON de resposta
	Tipo         TipoUsuario `json:"tipo"`
	CriadoEm     time.Time   `json:"criado_em"`
	AtualizadoEm time.Time   `json:"atualizado_em"`
}

// TipoUsuario é um tipo string para representar o papel do usuário no sistema.
type TipoUsuario string

// Constantes para os papéis de usuário.
const (
	TipoAluno      TipoUsuario = "aluno"
	TipoOrientador TipoUsuario = "orientador"
)

// ParseTipoUsuario converte uma string em TipoUsuario.
// Valores não reconhecidos são rejeitados: nunca assumimos um papel padrão
// a partir de entrada externa (isso seria uma falha de escalação de privilégio).
func ParseTipoUsuario(s string) (TipoUsuario, error) {
	switch TipoUsuario(s) {
	case TipoAluno:
		return TipoAluno, nil
	case TipoOrientador:
		return TipoOrientador, nil
	default:
		return "", fmt.Errorf("tipo de usuário desconhecido: %q", s)
	}
}

// RegistroUsuario representa o payload de entrada para o registro.
type RegistroUsuario struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Senha string `json:"senha"`
	Tipo  string `json:"tipo,omitempty"` // vazio = aluno
}

// UsuarioRepository define o contrato de persistência para a entidade Usuario.
type UsuarioRepository interface {
	Save(ctx context.Context, usuario Usuario) (Usuario, error)
	Update(ctx context.Context, usuario Usuario) (Usuario, error)
	FindByEmail(ctx context.Context, email string) (Usuario, error)
	FindByID(ctx context.Context, id int) (Usuario, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByID(ctx context.Context, id int) (bool, error)
}
