package models

import "time"

// Edital statuses are set by the admin, never derived from the dates.
const (
	EditalAberto    = "Aberto"
	EditalFechado   = "Fechado"
	EditalEmAnalise = "Em Análise"
)

// Edital is a call for applications.
type Edital struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Titulo    string `json:"titulo" gorm:"not null"`
	Descricao string `json:"descricao"`
	LinkPDF   string `json:"link_pdf,omitempty"`

	DataAbertura   *time.Time `json:"data_abertura,omitempty"`
	DataFechamento *time.Time `json:"data_fechamento,omitempty"`

	Status string `json:"status" gorm:"index;default:'Aberto'"`
	Ordem  int    `json:"ordem" gorm:"index;default:0"`
}

func (Edital) TableName() string { return "editais" }
