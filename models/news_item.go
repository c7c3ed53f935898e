package models

import "time"

// NewsItem is a news article. The slug is derived from the title exactly
// once at creation time and is never recomputed on later edits, so links
// stay stable.
type NewsItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Titulo string `json:"titulo" gorm:"not null"`
	Slug   string `json:"slug" gorm:"uniqueIndex;not null"`

	Resumo   string `json:"resumo"`
	Conteudo string `json:"conteudo" gorm:"type:text"` // Markdown

	ImagemCapaURL  string     `json:"imagem_capa_url,omitempty"`
	DataPublicacao *time.Time `json:"data_publicacao,omitempty" gorm:"index"`

	Publicado bool `json:"publicado" gorm:"index;default:false"`
}

func (NewsItem) TableName() string { return "noticias" }
