package domain

import (
	"context"
	"fmt"
	"time"
)

// Aluno representa o perfil de estudante vinculado a um Usuario.
// A relação é um-para-um: cada Usuario pode possuir no máximo um Aluno
// (coluna usuario_id com restrição UNIQUE no banco).
type Aluno struct {
	ID             int           `json:"id"`
	UsuarioID      int           `json:"usuario_id"`
	Idade          int           `json:"idade"`
	PeriodoAno     string        `json:"periodo_ano"`
	EditalIngresso string        `json:"edital_ingresso"`
	TipoEstudante  TipoEstudante `json:"tipo_estudante"`
	Curso          string        `json:"curso"`
	CriadoEm       time.Time     `json:"criado_em"`
	AtualizadoEm   time.Time     `json:"atualizado_em"`
}

// TipoEstudante indica o vínculo do aluno com o programa.
type TipoEstudante string

const (
	EstudanteBolsista   TipoEstudante = "bolsista"
	EstudanteVoluntario TipoEstudante = "voluntario"
)

// ParseTipoEstudante converte uma string em TipoEstudante, rejeitando valores
// fora do enum.
func ParseTipoEstudante(s string) (TipoEstudante, error) {
	switch TipoEstudante(s) {
	case EstudanteBolsista:
		return EstudanteBolsista, nil
	case EstudanteVoluntario:
		return EstudanteVoluntario, nil
	default:
		return "", fmt.Errorf("tipo de estudante desconhecido: %q", s)
	}
}

// IdadeMinima é a idade mínima aceita para o cadastro de um Aluno.
const IdadeMinima = 16

// AlunoPayload representa o payload de entrada para criação/atualização de Aluno.
type AlunoPayload struct {
	UsuarioID      int    `json:"usuario_id"`
	Idade          int    `json:"idade"`
	PeriodoAno     string `json:"periodo_ano"`
	EditalIngresso string `json:"edital_ingresso"`
	TipoEstudante  string `json:"tipo_estudante"`
	Curso          string `json:"curso"`
}

// AlunoRepository define o contrato de persistência para a entidade Aluno.
type AlunoRepository interface {
	Save(ctx context.Context, aluno Aluno) (Aluno, error)
	Update(ctx context.Context, aluno Aluno) (Aluno, error)
	FindByID(ctx context.Context, id int) (Aluno, error)
	FindAll(ctx context.Context) ([]Aluno, error)
	Delete(ctx context.Context, id int) error
	ExistsByID(ctx context.Context, id int) (bool, error)
	ExistsByUsuarioID(ctx context.Context, usuarioID int) (bool, error)
}
