package usuariorepo

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

// UsuarioRepository implementa a interface domain.UsuarioRepository sobre
// PostgreSQL.
type UsuarioRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewUsuarioRepository cria uma nova instância do UsuarioRepository, injetando o DB.
func NewUsuarioRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *UsuarioRepository {
	return &UsuarioRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const usuarioColumns = `id, nome, email, senha_hash, tipo, criado_em, atualizado_em`

// Save insere um novo usuário e retorna a entidade com o ID atribuído pelo banco.
func (r *UsuarioRepository) Save(ctx context.Context, usuario domain.Usuario) (domain.Usuario, error) {
	r.logger.Debug("Iniciando Save de usuário no repositório.", map[string]interface{}{"email": usuario.Email})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	now := time.Now()
	usuario.CriadoEm = now
	usuario.AtualizadoEm = now

	const insertSQL = `INSERT INTO usuarios (nome, email, senha_hash, tipo, criado_em, atualizado_em)
                       VALUES ($1, $2, $3, $4, $5, $6)
                       RETURNING id`

	err := r.DB.QueryRowContext(
		ctxTimeout,
		insertSQL,
		usuario.Nome,
		usuario.Email,
		usuario.SenhaHash,
		usuario.Tipo,
		usuario.CriadoEm,
		usuario.AtualizadoEm,
	).Scan(&usuario.ID)

	if err != nil {
		// A constraint UNIQUE de email é o desempate autoritativo para
		// registros concorrentes com o mesmo email.
		if apperror.IsUniqueViolation(err) {
			return domain.Usuario{}, apperror.NewConflictError(
				fmt.Sprintf("O email '%s' já está em uso.", usuario.Email),
			)
		}
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.Usuario{}, apperror.NewDBError("failed to insert user", err)
	}

	r.logger.Info("Usuário salvo com sucesso no repositório.", map[string]interface{}{"user_id": usuario.ID, "email": usuario.Email})
	return usuario, nil
}

// Update persiste os campos mutáveis de um usuário existente e renova o
// atualizado_em.
func (r *UsuarioRepository) Update(ctx context.Context, usuario domain.Usuario) (domain.Usuario, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	usuario.AtualizadoEm = time.Now()

	const updateSQL = `UPDATE usuarios
                       SET nome = $1, email = $2, senha_hash = $3, tipo = $4, atualizado_em = $5
                       WHERE id = $6`

	result, err := r.DB.ExecContext(
		ctxTimeout,
		updateSQL,
		usuario.Nome,
		usuario.Email,
		usuario.SenhaHash,
		usuario.Tipo,
		usuario.AtualizadoEm,
		usuario.ID,
	)
	if err != nil {
		if apperror.IsUniqueViolation(err) {
			return domain.Usuario{}, apperror.NewConflictError(
				fmt.Sprintf("O email '%s' já está em uso.", usuario.Email),
			)
		}
		r.logger.Error("Falha ao atualizar usuário no DB.", err)
		return domain.Usuario{}, apperror.NewDBError("failed to update user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.Usuario{}, apperror.NewDBError("failed to read update result", err)
	}
	if rows == 0 {
		return domain.Usuario{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com id %d não encontrado", usuario.ID))
	}

	return usuario, nil
}

// FindByEmail busca um usuário pelo endereço de e-mail. A comparação é
// case-sensitive, exatamente como armazenado.
func (r *UsuarioRepository) FindByEmail(ctx context.Context, email string) (domain.Usuario, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + usuarioColumns + ` FROM usuarios WHERE email = $1`
	row := r.DB.QueryRowContext(ctxTimeout, query, email)

	return r.scanUsuario(row, fmt.Sprintf("Usuário com email '%s' não encontrado", email))
}

// FindByID busca um usuário pelo seu ID.
func (r *UsuarioRepository) FindByID(ctx context.Context, id int) (domain.Usuario, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + usuarioColumns + ` FROM usuarios WHERE id = $1`
	row := r.DB.QueryRowContext(ctxTimeout, query, id)

	return r.scanUsuario(row, fmt.Sprintf("Usuário com id %d não encontrado", id))
}

// ExistsByEmail informa se já existe um usuário com o e-mail informado.
func (r *UsuarioRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT EXISTS(SELECT 1 FROM usuarios WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, apperror.NewDBError("failed to check user existence by email", err)
	}
	return exists, nil
}

// ExistsByID informa se existe um usuário com o ID informado.
func (r *UsuarioRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT EXISTS(SELECT 1 FROM usuarios WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, apperror.NewDBError("failed to check user existence by id", err)
	}
	return exists, nil
}

// scanUsuario mapeia uma linha para a struct Usuario, traduzindo ErrNoRows
// em NotFound tipado.
func (r *UsuarioRepository) scanUsuario(row *sql.Row, notFoundMsg string) (domain.Usuario, error) {
	var usuario domain.Usuario
	err := row.Scan(
		&usuario.ID,
		&usuario.Nome,
		&usuario.Email,
		&usuario.SenhaHash,
		&usuario.Tipo,
		&usuario.CriadoEm,
		&usuario.AtualizadoEm,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Usuario{}, apperror.NewNotFoundError(notFoundMsg)
		}
		r.logger.Error("Falha ao buscar usuário no DB.", err)
		return domain.Usuario{}, apperror.NewDBError("failed to find user", err)
	}
	return usuario, nil
}
