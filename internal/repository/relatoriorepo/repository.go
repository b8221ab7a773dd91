package relatoriorepo

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

// RelatorioRepository implementa a interface domain.RelatorioRepository sobre
// PostgreSQL.
type RelatorioRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewRelatorioRepository cria uma nova instância do RelatorioRepository, injetando o DB.
func NewRelatorioRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *RelatorioRepository {
	return &RelatorioRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const relatorioColumns = `id, aluno_id, tipo_relatorio, data_inicial, data_final, data_envio, resumo_atividades, comentarios, criado_em, atualizado_em`

// Save insere um novo relatório e retorna a entidade com o ID atribuído pelo banco.
func (r *RelatorioRepository) Save(ctx context.Context, relatorio domain.Relatorio) (domain.Relatorio, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	now := time.Now()
	relatorio.CriadoEm = now
	relatorio.AtualizadoEm = now

	const insertSQL = `INSERT INTO relatorios (aluno_id, tipo_relatorio, data_inicial, data_final, data_envio, resumo_atividades, comentarios, criado_em, atualizado_em)
                       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
                       RETURNING id`

	err := r.DB.QueryRowContext(
		ctxTimeout,
		insertSQL,
		relatorio.AlunoID,
		relatorio.TipoRelatorio,
		relatorio.DataInicial,
		relatorio.DataFinal,
		relatorio.DataEnvio,
		relatorio.ResumoAtividades,
		relatorio.Comentarios,
		relatorio.CriadoEm,
		relatorio.AtualizadoEm,
	).Scan(&relatorio.ID)

	if err != nil {
		r.logger.Error("Falha ao inserir relatório no DB.", err)
		return domain.Relatorio{}, apperror.NewDBError("failed to insert relatorio", err)
	}

	r.logger.Info("Relatório salvo com sucesso no repositório.", map[string]interface{}{"relatorio_id": relatorio.ID, "aluno_id": relatorio.AlunoID})
	return relatorio, nil
}

// Update persiste os campos mutáveis de um relatório existente e renova o
// atualizado_em.
func (r *RelatorioRepository) Update(ctx context.Context, relatorio domain.Relatorio) (domain.Relatorio, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	relatorio.AtualizadoEm = time.Now()

	const updateSQL = `UPDATE relatorios
                       SET aluno_id = $1, tipo_relatorio = $2, data_inicial = $3, data_final = $4, data_envio = $5, resumo_atividades = $6, comentarios = $7, atualizado_em = $8
                       WHERE id = $9`

	result, err := r.DB.ExecContext(
		ctxTimeout,
		updateSQL,
		relatorio.AlunoID,
		relatorio.TipoRelatorio,
		relatorio.DataInicial,
		relatorio.DataFinal,
		relatorio.DataEnvio,
		relatorio.ResumoAtividades,
		relatorio.Comentarios,
		relatorio.AtualizadoEm,
		relatorio.ID,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar relatório no DB.", err)
		return domain.Relatorio{}, apperror.NewDBError("failed to update relatorio", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.Relatorio{}, apperror.NewDBError("failed to read update result", err)
	}
	if rows == 0 {
		return domain.Relatorio{}, apperror.NewNotFoundError(fmt.Sprintf("Relatório com id %d não encontrado", relatorio.ID))
	}

	return relatorio, nil
}

// FindByID busca um relatório pelo seu ID.
func (r *RelatorioRepository) FindByID(ctx context.Context, id int) (domain.Relatorio, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + relatorioColumns + ` FROM relatorios WHERE id = $1`
	row := r.DB.QueryRowContext(ctxTimeout, query, id)

	var relatorio domain.Relatorio
	err := scanRelatorio(row.Scan, &relatorio)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Relatorio{}, apperror.NewNotFoundError(fmt.Sprintf("Relatório com id %d não encontrado", id))
		}
		r.logger.Error("Falha ao buscar relatório no DB.", err)
		return domain.Relatorio{}, apperror.NewDBError("failed to find relatorio", err)
	}
	return relatorio, nil
}

// FindAll lista todos os relatórios.
func (r *RelatorioRepository) FindAll(ctx context.Context) ([]domain.Relatorio, error) {
	return r.list(ctx, `SELECT `+relatorioColumns+` FROM relatorios ORDER BY id`)
}

// FindAllByAlunoID lista os relatórios de um aluno específico.
func (r *RelatorioRepository) FindAllByAlunoID(ctx context.Context, alunoID int) ([]domain.Relatorio, error) {
	return r.list(ctx, `SELECT `+relatorioColumns+` FROM relatorios WHERE aluno_id = $1 ORDER BY id`, alunoID)
}

func (r *RelatorioRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Relatorio, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("failed to list relatorios", err)
	}
	defer rows.Close()

	relatorios := []domain.Relatorio{}
	for rows.Next() {
		var relatorio domain.Relatorio
		if err := scanRelatorio(rows.Scan, &relatorio); err != nil {
			return nil, apperror.NewDBError("failed to scan relatorio row", err)
		}
		relatorios = append(relatorios, relatorio)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate relatorios", err)
	}
	return relatorios, nil
}

// Delete remove um relatório e sua avaliação associada dentro de uma única
// transação. A ordem é obrigatória: primeiro a avaliação (zero linhas não é
// erro), depois o relatório. Uma falha em qualquer passo aborta a transação
// inteira — nunca fica uma avaliação apontando para relatório inexistente.
func (r *RelatorioRepository) Delete(ctx context.Context, id int) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return apperror.NewDBError("failed to start tx", err)
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctxTimeout, `DELETE FROM avaliacoes_relatorio WHERE relatorio_id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar avaliação associada ao relatório.", err)
		return apperror.NewDBError("failed to delete avaliacao for relatorio", err)
	}

	var result sql.Result
	result, err = tx.ExecContext(ctxTimeout, `DELETE FROM relatorios WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar relatório no DB.", err)
		return apperror.NewDBError("failed to delete relatorio", err)
	}

	var rows int64
	rows, err = result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to read delete result", err)
	}
	if rows == 0 {
		err = apperror.NewNotFoundError(fmt.Sprintf("Relatório com id %d não encontrado", id))
		return err
	}

	if err = tx.Commit(); err != nil {
		return apperror.NewDBError("failed to commit tx", err)
	}

	r.logger.Info("Relatório e avaliação associada removidos.", map[string]interface{}{"relatorio_id": id})
	return nil
}

// ExistsByID informa se existe um relatório com o ID informado.
func (r *RelatorioRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT EXISTS(SELECT 1 FROM relatorios WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, apperror.NewDBError("failed to check relatorio existence", err)
	}
	return exists, nil
}

// ExistsByAlunoID informa se o aluno possui ao menos um relatório.
func (r *RelatorioRepository) ExistsByAlunoID(ctx context.Context, alunoID int) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT EXISTS(SELECT 1 FROM relatorios WHERE aluno_id = $1)`, alunoID).Scan(&exists)
	if err != nil {
		return false, apperror.NewDBError("failed to check relatorio existence by aluno", err)
	}
	return exists, nil
}

// scanRelatorio mapeia uma linha (de Row ou Rows) para a struct Relatorio.
func scanRelatorio(scan func(dest ...interface{}) error, relatorio *domain.Relatorio) error {
	var dataEnvio sql.NullTime
	err := scan(
		&relatorio.ID,
		&relatorio.AlunoID,
		&relatorio.TipoRelatorio,
		&relatorio.DataInicial,
		&relatorio.DataFinal,
		&dataEnvio,
		&relatorio.ResumoAtividades,
		&relatorio.Comentarios,
		&relatorio.CriadoEm,
		&relatorio.AtualizadoEm,
	)
	if err != nil {
		return err
	}
	if dataEnvio.Valid {
		relatorio.DataEnvio = &dataEnvio.Time
	}
	return nil
}
