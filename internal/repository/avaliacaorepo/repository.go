package avaliacaorepo

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

// AvaliacaoRepository implementa a interface domain.AvaliacaoRelatorioRepository
// sobre PostgreSQL.
type AvaliacaoRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewAvaliacaoRepository cria uma nova instância do AvaliacaoRepository, injetando o DB.
func NewAvaliacaoRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *AvaliacaoRepository {
	return &AvaliacaoRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const avaliacaoColumns = `id, relatorio_id, carga_horaria, interesse_atividades, habilidades_desenvolvidas, outras_informacoes, criado_em, atualizado_em`

// Save insere uma nova avaliação. A coluna relatorio_id tem restrição UNIQUE:
// avaliações concorrentes do mesmo relatório colidem no insert e o resultado
// é o mesmo Conflict do pré-check do serviço.
func (r *AvaliacaoRepository) Save(ctx context.Context, avaliacao domain.AvaliacaoRelatorio) (domain.AvaliacaoRelatorio, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	now := time.Now()
	avaliacao.CriadoEm = now
	avaliacao.AtualizadoEm = now

	const insertSQL = `INSERT INTO avaliacoes_relatorio (relatorio_id, carga_horaria, interesse_atividades, habilidades_desenvolvidas, outras_informacoes, criado_em, atualizado_em)
                       VALUES ($1, $2, $3, $4, $5, $6, $7)
                       RETURNING id`

	err := r.DB.QueryRowContext(
		ctxTimeout,
		insertSQL,
		avaliacao.RelatorioID,
		avaliacao.CargaHoraria,
		avaliacao.InteresseAtividades,
		avaliacao.HabilidadesDesenvolvidas,
		avaliacao.OutrasInformacoes,
		avaliacao.CriadoEm,
		avaliacao.AtualizadoEm,
	).Scan(&avaliacao.ID)

	if err != nil {
		if apperror.IsUniqueViolation(err) {
			return domain.AvaliacaoRelatorio{}, apperror.NewConflictError(
				fmt.Sprintf("Já existe uma avaliação para o relatório com id %d.", avaliacao.RelatorioID),
			)
		}
		r.logger.Error("Falha ao inserir avaliação no DB.", err)
		return domain.AvaliacaoRelatorio{}, apperror.NewDBError("failed to insert avaliacao", err)
	}

	r.logger.Info("Avaliação salva com sucesso no repositório.", map[string]interface{}{"avaliacao_id": avaliacao.ID, "relatorio_id": avaliacao.RelatorioID})
	return avaliacao, nil
}

// Update persiste os critérios e observações de uma avaliação existente.
// O relatorio_id não é alterado: a associação um-para-um é imutável após a
// criação.
func (r *AvaliacaoRepository) Update(ctx context.Context, avaliacao domain.AvaliacaoRelatorio) (domain.AvaliacaoRelatorio, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	avaliacao.AtualizadoEm = time.Now()

	const updateSQL = `UPDATE avaliacoes_relatorio
                       SET carga_horaria = $1, interesse_atividades = $2, habilidades_desenvolvidas = $3, outras_informacoes = $4, atualizado_em = $5
                       WHERE id = $6`

	result, err := r.DB.ExecContext(
		ctxTimeout,
		updateSQL,
		avaliacao.CargaHoraria,
		avaliacao.InteresseAtividades,
		avaliacao.HabilidadesDesenvolvidas,
		avaliacao.OutrasInformacoes,
		avaliacao.AtualizadoEm,
		avaliacao.ID,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar avaliação no DB.", err)
		return domain.AvaliacaoRelatorio{}, apperror.NewDBError("failed to update avaliacao", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.AvaliacaoRelatorio{}, apperror.NewDBError("failed to read update result", err)
	}
	if rows == 0 {
		return domain.AvaliacaoRelatorio{}, apperror.NewNotFoundError(fmt.Sprintf("Avaliação com id %d não encontrada", avaliacao.ID))
	}

	return avaliacao, nil
}

// FindByID busca uma avaliação pelo seu ID.
func (r *AvaliacaoRepository) FindByID(ctx context.Context, id int) (domain.AvaliacaoRelatorio, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + avaliacaoColumns + ` FROM avaliacoes_relatorio WHERE id = $1`
	row := r.DB.QueryRowContext(ctxTimeout, query, id)

	return r.scanAvaliacao(row, fmt.Sprintf("Avaliação de relatório com id %d não encontrada", id))
}

// FindByRelatorioID busca a avaliação associada a um relatório.
func (r *AvaliacaoRepository) FindByRelatorioID(ctx context.Context, relatorioID int) (domain.AvaliacaoRelatorio, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + avaliacaoColumns + ` FROM avaliacoes_relatorio WHERE relatorio_id = $1`
	row := r.DB.QueryRowContext(ctxTimeout, query, relatorioID)

	return r.scanAvaliacao(row, fmt.Sprintf("Avaliação não encontrada para o relatório com id %d", relatorioID))
}

// FindAll lista todas as avaliações.
func (r *AvaliacaoRepository) FindAll(ctx context.Context) ([]domain.AvaliacaoRelatorio, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + avaliacaoColumns + ` FROM avaliacoes_relatorio ORDER BY id`
	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		return nil, apperror.NewDBError("failed to list avaliacoes", err)
	}
	defer rows.Close()

	avaliacoes := []domain.AvaliacaoRelatorio{}
	for rows.Next() {
		var avaliacao domain.AvaliacaoRelatorio
		err := rows.Scan(
			&avaliacao.ID,
			&avaliacao.RelatorioID,
			&avaliacao.CargaHoraria,
			&avaliacao.InteresseAtividades,
			&avaliacao.HabilidadesDesenvolvidas,
			&avaliacao.OutrasInformacoes,
			&avaliacao.CriadoEm,
			&avaliacao.AtualizadoEm,
		)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan avaliacao row", err)
		}
		avaliacoes = append(avaliacoes, avaliacao)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate avaliacoes", err)
	}
	return avaliacoes, nil
}

// Delete remove uma avaliação pelo ID.
func (r *AvaliacaoRepository) Delete(ctx context.Context, id int) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM avaliacoes_relatorio WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar avaliação no DB.", err)
		return apperror.NewDBError("failed to delete avaliacao", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to read delete result", err)
	}
	if rows == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Avaliação de relatório com id %d não encontrada", id))
	}
	return nil
}

// ExistsByRelatorioID informa se o relatório já possui avaliação.
func (r *AvaliacaoRepository) ExistsByRelatorioID(ctx context.Context, relatorioID int) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT EXISTS(SELECT 1 FROM avaliacoes_relatorio WHERE relatorio_id = $1)`, relatorioID).Scan(&exists)
	if err != nil {
		return false, apperror.NewDBError("failed to check avaliacao existence", err)
	}
	return exists, nil
}

// scanAvaliacao mapeia uma linha para a struct AvaliacaoRelatorio, traduzindo
// ErrNoRows em NotFound tipado.
func (r *AvaliacaoRepository) scanAvaliacao(row *sql.Row, notFoundMsg string) (domain.AvaliacaoRelatorio, error) {
	var avaliacao domain.AvaliacaoRelatorio
	err := row.Scan(
		&avaliacao.ID,
		&avaliacao.RelatorioID,
		&avaliacao.CargaHoraria,
		&avaliacao.InteresseAtividades,
		&avaliacao.HabilidadesDesenvolvidas,
		&avaliacao.OutrasInformacoes,
		&avaliacao.CriadoEm,
		&avaliacao.AtualizadoEm,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.AvaliacaoRelatorio{}, apperror.NewNotFoundError(notFoundMsg)
		}
		r.logger.Error("Falha ao buscar avaliação no DB.", err)
		return domain.AvaliacaoRelatorio{}, apperror.NewDBError("failed to find avaliacao", err)
	}
	return avaliacao, nil
}
