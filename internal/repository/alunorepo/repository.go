package alunorepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"controlpet/internal/domain"
	apperror "controlpet/internal/errors"
	"controlpet/internal/pkg/logger"
)

// AlunoRepository implementa a interface domain.AlunoRepository sobre PostgreSQL.
type AlunoRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewAlunoRepository cria uma nova instância do AlunoRepository, injetando o DB.
func NewAlunoRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *AlunoRepository {
	return &AlunoRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const alunoColumns = `id, usuario_id, idade, periodo_ano, edital_ingresso, tipo_estudante, curso, criado_em, atualizado_em`

// Save insere um novo aluno. A coluna usuario_id tem restrição UNIQUE: a
// violação no insert é o desempate autoritativo para criações concorrentes
// com o mesmo usuário e vira o mesmo Conflict do pré-check do serviço.
func (r *AlunoRepository) Save(ctx context.Context, aluno domain.Aluno) (domain.Aluno, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	now := time.Now()
	aluno.CriadoEm = now
	aluno.AtualizadoEm = now

	const insertSQL = `INSERT INTO alunos (usuario_id, idade, periodo_ano, edital_ingresso, tipo_estudante, curso, criado_em, atualizado_em)
                       VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                       RETURNING id`

	err := r.DB.QueryRowContext(
		ctxTimeout,
		insertSQL,
		aluno.UsuarioID,
		aluno.Idade,
		aluno.PeriodoAno,
		aluno.EditalIngresso,
		aluno.TipoEstudante,
		aluno.Curso,
		aluno.CriadoEm,
		aluno.AtualizadoEm,
	).Scan(&aluno.ID)

	if err != nil {
		if apperror.IsUniqueViolation(err) {
			return domain.Aluno{}, apperror.NewConflictError(
				fmt.Sprintf("Usuário %d já possui um aluno associado.", aluno.UsuarioID),
			)
		}
		r.logger.Error("Falha ao inserir aluno no DB.", err)
		return domain.Aluno{}, apperror.NewDBError("failed to insert aluno", err)
	}

	r.logger.Info("Aluno salvo com sucesso no repositório.", map[string]interface{}{"aluno_id": aluno.ID, "usuario_id": aluno.UsuarioID})
	return aluno, nil
}

// Update persiste os campos mutáveis de um aluno existente e renova o
// atualizado_em.
func (r *AlunoRepository) Update(ctx context.Context, aluno domain.Aluno) (domain.Aluno, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	aluno.AtualizadoEm = time.Now()

	const updateSQL = `UPDATE alunos
                       SET usuario_id = $1, idade = $2, periodo_ano = $3, edital_ingresso = $4, tipo_estudante = $5, curso = $6, atualizado_em = $7
                       WHERE id = $8`

	result, err := r.DB.ExecContext(
		ctxTimeout,
		updateSQL,
		aluno.UsuarioID,
		aluno.Idade,
		aluno.PeriodoAno,
		aluno.EditalIngresso,
		aluno.TipoEstudante,
		aluno.Curso,
		aluno.AtualizadoEm,
		aluno.ID,
	)
	if err != nil {
		if apperror.IsUniqueViolation(err) {
			return domain.Aluno{}, apperror.NewConflictError(
				fmt.Sprintf("Usuário %d já possui um aluno associado.", aluno.UsuarioID),
			)
		}
		r.logger.Error("Falha ao atualizar aluno no DB.", err)
		return domain.Aluno{}, apperror.NewDBError("failed to update aluno", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.Aluno{}, apperror.NewDBError("failed to read update result", err)
	}
	if rows == 0 {
		return domain.Aluno{}, apperror.NewNotFoundError(fmt.Sprintf("Aluno com id %d não encontrado", aluno.ID))
	}

	return aluno, nil
}

// FindByID busca um aluno pelo seu ID.
func (r *AlunoRepository) FindByID(ctx context.Context, id int) (domain.Aluno, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + alunoColumns + ` FROM alunos WHERE id = $1`
	row := r.DB.QueryRowContext(ctxTimeout, query, id)

	var aluno domain.Aluno
	err := scanAluno(row.Scan, &aluno)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Aluno{}, apperror.NewNotFoundError(fmt.Sprintf("Aluno com id %d não encontrado", id))
		}
		r.logger.Error("Falha ao buscar aluno no DB.", err)
		return domain.Aluno{}, apperror.NewDBError("failed to find aluno", err)
	}
	return aluno, nil
}

// FindAll lista todos os alunos cadastrados.
func (r *AlunoRepository) FindAll(ctx context.Context) ([]domain.Aluno, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + alunoColumns + ` FROM alunos ORDER BY id`
	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		return nil, apperror.NewDBError("failed to list alunos", err)
	}
	defer rows.Close()

	alunos := []domain.Aluno{}
	for rows.Next() {
		var aluno domain.Aluno
		if err := scanAluno(rows.Scan, &aluno); err != nil {
			return nil, apperror.NewDBError("failed to scan aluno row", err)
		}
		alunos = append(alunos, aluno)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate alunos", err)
	}
	return alunos, nil
}

// Delete remove um aluno pelo ID.
func (r *AlunoRepository) Delete(ctx context.Context, id int) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM alunos WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar aluno no DB.", err)
		return apperror.NewDBError("failed to delete aluno", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to read delete result", err)
	}
	if rows == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Aluno com id %d não encontrado", id))
	}
	return nil
}

// ExistsByID informa se existe um aluno com o ID informado.
func (r *AlunoRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT EXISTS(SELECT 1 FROM alunos WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, apperror.NewDBError("failed to check aluno existence", err)
	}
	return exists, nil
}

// ExistsByUsuarioID informa se o usuário já possui um aluno associado.
func (r *AlunoRepository) ExistsByUsuarioID(ctx context.Context, usuarioID int) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT EXISTS(SELECT 1 FROM alunos WHERE usuario_id = $1)`, usuarioID).Scan(&exists)
	if err != nil {
		return false, apperror.NewDBError("failed to check aluno existence by usuario", err)
	}
	return exists, nil
}

// scanAluno mapeia uma linha (de Row ou Rows) para a struct Aluno.
func scanAluno(scan func(dest ...interface{}) error, aluno *domain.Aluno) error {
	return scan(
		&aluno.ID,
		&aluno.UsuarioID,
		&aluno.Idade,
		&aluno.PeriodoAno,
		&aluno.EditalIngresso,
		&aluno.TipoEstudante,
		&aluno.Curso,
		&aluno.CriadoEm,
		&aluno.AtualizadoEm,
	)
}
