package models

import "time"

// Publication is a bibliography entry. Authors stay a free-text string,
// formatted the way the group writes citations.
type Publication struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Titulo  string `json:"titulo" gorm:"not null"`
	Autores string `json:"autores"`
	Ano     int    `json:"ano" gorm:"index"`
	Tipo    string `json:"tipo,omitempty"` // Artigo, Capítulo, Anais...
	LinkURL string `json:"link_url,omitempty"`
}

func (Publication) TableName() string { return "publicacoes" }
