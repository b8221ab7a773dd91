package domain

import (
	"context"
	"time"
)

// TipoRelatorioPadrao é o rótulo aplicado quando o tipo não é informado.
const TipoRelatorioPadrao = "Relatório Mensal"

// Relatorio representa um relatório de atividades enviado por um Aluno.
// Um Aluno pode possuir vários relatórios (um-para-muitos).
type Relatorio struct {
	ID               int        `json:"id"`
	AlunoID          int        `json:"aluno_id"`
	TipoRelatorio    string     `json:"tipo_relatorio"`
	DataInicial      time.Time  `json:"data_inicial"`
	DataFinal        time.Time  `json:"data_final"`
	DataEnvio        *time.Time `json:"data_envio,omitempty"`
	ResumoAtividades string     `json:"resumo_atividades"`
	Comentarios      string     `json:"comentarios"`
	CriadoEm         time.Time  `json:"criado_em"`
	AtualizadoEm     time.Time  `json:"atualizado_em"`
}

// RelatorioPayload representa o payload de entrada para criação/atualização
// de Relatorio.
type RelatorioPayload struct {
	AlunoID          int        `json:"aluno_id"`
	TipoRelatorio    string     `json:"tipo_relatorio,omitempty"`
	DataInicial      time.Time  `json:"data_inicial"`
	DataFinal        time.Time  `json:"data_final"`
	DataEnvio        *time.Time `json:"data_envio,omitempty"`
	ResumoAtividades string     `json:"resumo_atividades"`
	Comentarios      string     `json:"comentarios"`
}

// RelatorioRepository define o contrato de persistência para a entidade Relatorio.
// Delete remove também a avaliação associada (se houver) dentro de uma única
// transação: o relatório nunca é removido deixando uma avaliação órfã.
type RelatorioRepository interface {
	Save(ctx context.Context, relatorio Relatorio) (Relatorio, error)
	Update(ctx context.Context, relatorio Relatorio) (Relatorio, error)
	FindByID(ctx context.Context, id int) (Relatorio, error)
	FindAll(ctx context.Context) ([]Relatorio, error)
	FindAllByAlunoID(ctx context.Context, alunoID int) ([]Relatorio, error)
	Delete(ctx context.Context, id int) error
	ExistsByID(ctx context.Context, id int) (bool, error)
	ExistsByAlunoID(ctx context.Context, alunoID int) (bool, error)
}
