package domain

import (
	"context"
	"fmt"
	"time"
)

// AvaliacaoRelatorio representa a avaliação de exatamente um Relatorio.
// A relação é um-para-um: cada Relatorio pode ter no máximo uma avaliação
// (coluna relatorio_id com restrição UNIQUE no banco).
type AvaliacaoRelatorio struct {
	ID                       int               `json:"id"`
	RelatorioID              int               `json:"relatorio_id"`
	CargaHoraria             CriterioAvaliacao `json:"carga_horaria"`
	InteresseAtividades      CriterioAvaliacao `json:"interesse_atividades"`
	HabilidadesDesenvolvidas CriterioAvaliacao `json:"habilidades_desenvolvidas"`
	OutrasInformacoes        string            `json:"outras_informacoes"`
	CriadoEm                 time.Time         `json:"criado_em"`
	AtualizadoEm             time.Time         `json:"atualizado_em"`
}

// CriterioAvaliacao é a escala fixa usada em cada critério avaliado.
type CriterioAvaliacao string

const (
	CriterioRuim    CriterioAvaliacao = "RUIM"
	CriterioRegular CriterioAvaliacao = "REGULAR"
	CriterioBom     CriterioAvaliacao = "BOM"
	CriterioOtimo   CriterioAvaliacao = "OTIMO"
)

// ParseCriterioAvaliacao converte uma string em CriterioAvaliacao, rejeitando
// valores fora da escala.
func ParseCriterioAvaliacao(s string) (CriterioAvaliacao, error) {
	switch CriterioAvaliacao(s) {
	case CriterioRuim:
		return CriterioRuim, nil
	case CriterioRegular:
		return CriterioRegular, nil
	case CriterioBom:
		return CriterioBom, nil
	case CriterioOtimo:
		return CriterioOtimo, nil
	default:
		return "", fmt.Errorf("critério de avaliação desconhecido: %q", s)
	}
}

// AvaliacaoPayload representa o payload de entrada para criação/atualização
// de AvaliacaoRelatorio.
type AvaliacaoPayload struct {
	RelatorioID              int    `json:"relatorio_id"`
	CargaHoraria             string `json:"carga_horaria"`
	InteresseAtividades      string `json:"interesse_atividades"`
	HabilidadesDesenvolvidas string `json:"habilidades_desenvolvidas"`
	OutrasInformacoes        string `json:"outras_informacoes"`
}

// AvaliacaoRelatorioRepository define o contrato de persistência para a
// entidade AvaliacaoRelatorio.
type AvaliacaoRelatorioRepository interface {
	Save(ctx context.Context, avaliacao AvaliacaoRelatorio) (AvaliacaoRelatorio, error)
	Update(ctx context.Context, avaliacao AvaliacaoRelatorio) (AvaliacaoRelatorio, error)
	FindByID(ctx context.Context, id int) (AvaliacaoRelatorio, error)
	FindAll(ctx context.Context) ([]AvaliacaoRelatorio, error)
	FindByRelatorioID(ctx context.Context, relatorioID int) (AvaliacaoRelatorio, error)
	Delete(ctx context.Context, id int) error
	ExistsByRelatorioID(ctx context.Context, relatorioID int) (bool, error)
}
