package crossref

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gsipp-backend/models"

	"go.uber.org/zap"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Response mirrors the fields of a Crossref works record that the import
// needs; everything else in the payload is ignored.
type Response struct {
	Message struct {
		Title  []string `json:"title"`
		Author []struct {
			Given  string `json:"given"`
			Family string `json:"family"`
		} `json:"author"`
		Issued struct {
			DateParts [][]int `json:"date-parts"`
		} `json:"issued"`
		Type string `json:"type"`
		URL  string `json:"URL"`
	} `json:"message"`
}

// Crossref work types mapped onto the site's publication categories.
var tipoPorWorkType = map[string]string{
	"journal-article":     "Artigo",
	"proceedings-article": "Artigo",
	"book-chapter":        "Capítulo de Livro",
	"book":                "Livro",
}

// Fetcher looks up publication metadata on the Crossref REST API.
type Fetcher struct {
	BaseURL string
	Logger  *zap.Logger
}

func NewFetcher(baseURL string, logger *zap.Logger) *Fetcher {
	return &Fetcher{BaseURL: baseURL, Logger: logger}
}

// Lookup resolves a DOI into a publication record ready for review in the
// admin panel.
func (f *Fetcher) Lookup(doi string) (models.Publication, error) {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return models.Publication{}, fmt.Errorf("empty DOI")
	}

	reqURL := fmt.Sprintf("%s/%s", f.BaseURL, url.PathEscape(doi))
	log := f.Logger.With(zap.String("doi", doi))
	log.Debug("Calling Crossref API", zap.String("url", reqURL))

	resp, err := httpClient.Get(reqURL)
	if err != nil {
		return models.Publication{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.Publication{}, fmt.Errorf("DOI %q not found", doi)
	}
	if resp.StatusCode != http.StatusOK {
		return models.Publication{}, fmt.Errorf("crossref request failed with status: %d", resp.StatusCode)
	}

	var cr Response
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return models.Publication{}, err
	}

	pub := fromResponse(cr)
	if pub.Titulo == "" {
		return models.Publication{}, fmt.Errorf("crossref record for %q carries no title", doi)
	}
	log.Info("Resolved publication metadata via Crossref", zap.String("title", pub.Titulo))
	return pub, nil
}

func fromResponse(cr Response) models.Publication {
	msg := cr.Message

	var pub models.Publication
	if len(msg.Title) > 0 {
		pub.Titulo = msg.Title[0]
	}

	authors := make([]string, 0, len(msg.Author))
	for _, a := range msg.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name != "" {
			authors = append(authors, name)
		}
	}
	pub.Autores = strings.Join(authors, "; ")

	if len(msg.Issued.DateParts) > 0 && len(msg.Issued.DateParts[0]) > 0 {
		pub.Ano = msg.Issued.DateParts[0][0]
	}

	pub.Tipo = tipoPorWorkType[msg.Type]
	if pub.Tipo == "" {
		pub.Tipo = "Outro"
	}
	pub.LinkURL = msg.URL
	return pub
}
