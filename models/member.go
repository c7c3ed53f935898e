package models

import "time"

// Member roles as shown on the public site. The role only suggests which
// event relation a member appears in; it is not enforced.
const (
	CargoDocente   = "Docente"
	CargoGraduacao = "Discente (Graduação)"
	CargoMestrado  = "Discente (Mestrado)"
	CargoDoutorado = "Discente (Doutorado)"
	CargoEgresso   = "Egresso"
	CargoPesquisa  = "Pesquisador"
)

// Member is a research-group member, public profile plus internal-only fields.
type Member struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Nome         string `json:"nome" gorm:"not null"`
	Cargo        string `json:"cargo" gorm:"index"`
	AreaPesquisa string `json:"area_pesquisa"`

	LattesURL   string `json:"lattes_url,omitempty"`
	LinkedinURL string `json:"linkedin_url,omitempty"`
	Email       string `json:"email,omitempty"`
	FotoURL     string `json:"foto_url,omitempty"`

	// Internal-only fields, never rendered on the public site.
	CPF          string     `json:"cpf,omitempty"`
	CargaHoraria string     `json:"carga_horaria,omitempty"`
	DataEntrada  *time.Time `json:"data_entrada,omitempty"`
	DataSaida    *time.Time `json:"data_saida,omitempty"`

	// Display position on the members page; ties break by insertion order.
	Ordem int `json:"ordem" gorm:"index;default:0"`
}

func (Member) TableName() string { return "membros" }
