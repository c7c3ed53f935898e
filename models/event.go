package models

import (
	"time"

	"github.com/lib/pq"
)

// Event types used by the agenda.
const (
	TipoEvento    = "Evento"
	TipoDefesa    = "Defesa"
	TipoPalestra  = "Palestra"
	TipoWorkshop  = "Workshop"
	TipoMinicurso = "Minicurso"
)

// Event is a scheduled activity: defense, talk, workshop or generic event.
// Upcoming/past is never stored; it is computed from DataEvento at read time.
type Event struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Titulo    string `json:"titulo" gorm:"not null"`
	Descricao string `json:"descricao" gorm:"type:text"`

	DataEvento *time.Time `json:"data_evento" gorm:"index"`
	// Second day of multi-day defenses, unused otherwise.
	DataEvento2 *time.Time `json:"data_evento_2,omitempty"`
	Horario     string     `json:"horario,omitempty"`
	Duracao     string     `json:"duracao,omitempty"`
	Local       string     `json:"local,omitempty"`
	Tipo        string     `json:"tipo" gorm:"index;default:'Evento'"`

	PalestranteExterno string `json:"palestrante_externo,omitempty"`
	LinkTransmissao    string `json:"link_transmissao,omitempty"`
	LinkInscricao      string `json:"link_inscricao,omitempty"`
	LinkCertificado    string `json:"link_certificado,omitempty"`

	// Member references are raw identifiers; deleting a member scrubs them
	// (see the member delete handler).
	MembroEstudanteID      *uint          `json:"membro_estudante_id,omitempty"`
	MembrosPalestrantesIDs pq.StringArray `json:"membros_palestrantes_ids" gorm:"type:text[]"`
	MembrosOrientadoresIDs pq.StringArray `json:"membros_orientadores_ids" gorm:"type:text[]"`
}

func (Event) TableName() string { return "eventos" }
