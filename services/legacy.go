package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gsipp-backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LegacyNews mirrors one entry of the legacy noticias.json file.
type LegacyNews struct {
	Title       string `json:"title"`
	Date        string `json:"date"` // DD/MM/YYYY
	Description string `json:"description"`
	Image       string `json:"image"`
	FullText    string `json:"fullText"`
}

type legacyNewsFile struct {
	Noticias []LegacyNews `json:"noticias"`
}

// ExtractArrayLiteral locates `const <name> = [ ... ];` inside legacy
// JavaScript source and parses the array literal into flat records. The old
// migration evaluated the matched text as code; here the literal syntax is
// parsed directly, so nothing is ever executed.
func ExtractArrayLiteral(src, name string) ([]map[string]string, error) {
	re := regexp.MustCompile(`(?s)const\s+` + regexp.QuoteMeta(name) + `\s*=\s*(\[.*?\]);`)
	m := re.FindStringSubmatch(src)
	if m == nil {
		return nil, fmt.Errorf("array literal %q not found", name)
	}
	return parseObjectArray(m[1])
}

// parseObjectArray parses a JS array of flat object literals with unquoted
// keys and string values, e.g. [{ name: "X", level: 'mestrado' }, ...].
// Trailing commas are tolerated; nesting is not, the legacy data is flat.
func parseObjectArray(src string) ([]map[string]string, error) {
	p := &literalParser{src: []rune(src)}
	records, err := p.parseArray()
	if err != nil {
		return nil, fmt.Errorf("legacy literal at offset %d: %w", p.pos, err)
	}
	return records, nil
}

type literalParser struct {
	src []rune
	pos int
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			p.pos++
			continue
		}
		// line comments between entries
		if r == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '/' {
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		return
	}
}

func (p *literalParser) expect(r rune) error {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != r {
		return fmt.Errorf("expected %q", r)
	}
	p.pos++
	return nil
}

func (p *literalParser) peek() (rune, bool) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *literalParser) parseArray() ([]map[string]string, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	var out []map[string]string
	for {
		r, ok := p.peek()
		if !ok {
			return nil, errors.New("unterminated array")
		}
		if r == ']' {
			p.pos++
			return out, nil
		}
		obj, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
		r, ok = p.peek()
		if !ok {
			return nil, errors.New("unterminated array")
		}
		if r == ',' {
			p.pos++
		}
	}
}

func (p *literalParser) parseObject() (map[string]string, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	obj := map[string]string{}
	for {
		r, ok := p.peek()
		if !ok {
			return nil, errors.New("unterminated object")
		}
		if r == '}' {
			p.pos++
			return obj, nil
		}
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		val, err := p.parseString()
		if err != nil {
			return nil, err
		}
		obj[key] = val
		r, ok = p.peek()
		if !ok {
			return nil, errors.New("unterminated object")
		}
		if r == ',' {
			p.pos++
		}
	}
}

func (p *literalParser) parseKey() (string, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		if r == '_' || r == '$' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(p.pos > start && r >= '0' && r <= '9') {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		// quoted keys also appear in hand-edited legacy files
		if r, ok := p.peek(); ok && (r == '"' || r == '\'') {
			return p.parseString()
		}
		return "", errors.New("expected object key")
	}
	return string(p.src[start:p.pos]), nil
}

func (p *literalParser) parseString() (string, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return "", errors.New("expected string value")
	}
	quote := p.src[p.pos]
	if quote != '"' && quote != '\'' && quote != '`' {
		return "", fmt.Errorf("expected string value, got %q", quote)
	}
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		p.pos++
		switch r {
		case quote:
			return b.String(), nil
		case '\\':
			if p.pos >= len(p.src) {
				return "", errors.New("unterminated escape")
			}
			esc := p.src[p.pos]
			p.pos++
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			default:
				b.WriteRune(esc)
			}
		default:
			b.WriteRune(r)
		}
	}
	return "", errors.New("unterminated string")
}

// TransformNews maps one legacy news entry into the insert payload. A date
// that does not split into three "/" components fails this record only.
func TransformNews(n LegacyNews) (models.NewsItem, error) {
	published, err := ParseLegacyDate(n.Date)
	if err != nil {
		return models.NewsItem{}, err
	}
	return models.NewsItem{
		Titulo:         n.Title,
		Slug:           Slugify(n.Title),
		Resumo:         n.Description,
		Conteudo:       n.Description, // initial content mirrors the summary
		DataPublicacao: &published,
		ImagemCapaURL:  n.Image,
		Publicado:      true,
	}, nil
}

// legacy level → cargo; anything unmatched becomes Pesquisador
var cargoPorNivel = map[string]string{
	"graduacao": models.CargoGraduacao,
	"mestrado":  models.CargoMestrado,
	"doutorado": models.CargoDoutorado,
}

// TransformMember maps one legacy member record; index is the position in
// the source array and becomes the display order.
func TransformMember(m map[string]string, index int) models.Member {
	cargo, ok := cargoPorNivel[m["level"]]
	if !ok {
		cargo = models.CargoPesquisa
	}
	return models.Member{
		Nome:         m["name"],
		Cargo:        cargo,
		AreaPesquisa: m["area"],
		LinkedinURL:  m["linkedin"],
		LattesURL:    m["lattes"],
		Ordem:        index,
	}
}

// TransformTalk maps one legacy TCC transmission into an event record.
func TransformTalk(t map[string]string) (models.Event, error) {
	date, err := ParseLegacyDate(t["date"])
	if err != nil {
		return models.Event{}, err
	}
	return models.Event{
		Titulo:        t["title"],
		Descricao:     t["description"] + " \n\nDiscente: " + t["student"],
		DataEvento:    &date,
		LinkInscricao: t["youtubeLink"],
		Local:         "YouTube",
		Tipo:          models.TipoDefesa,
	}, nil
}

// Migrator runs the one-shot legacy import. The three steps are
// independent: a failing or missing source never aborts a sibling step.
type Migrator struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// Run executes every migration step against the legacy directory.
func (mg *Migrator) Run(legacyDir string) {
	mg.MigrateNews(legacyDir + "/data/noticias.json")
	mg.MigrateMembersAndTalks(legacyDir + "/js/index.js")
}

// MigrateNews imports legacy news items from a JSON file.
func (mg *Migrator) MigrateNews(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			mg.Logger.Warn("noticias.json not found, skipping news step", zap.String("path", path))
			return
		}
		mg.Logger.Error("Failed to read noticias.json", zap.Error(err))
		return
	}
	var file legacyNewsFile
	if err := json.Unmarshal(raw, &file); err != nil {
		mg.Logger.Error("Failed to parse noticias.json", zap.Error(err))
		return
	}

	var items []models.NewsItem
	for i, n := range file.Noticias {
		item, err := TransformNews(n)
		if err != nil {
			mg.Logger.Warn("Skipping news record with bad date",
				zap.Int("index", i), zap.String("title", n.Title), zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		mg.Logger.Info("No news records to migrate")
		return
	}
	if err := mg.DB.Create(&items).Error; err != nil {
		mg.Logger.Error("Failed to insert migrated news", zap.Error(err))
		return
	}
	mg.Logger.Info("Migrated news", zap.Int("count", len(items)))
}

// MigrateMembersAndTalks extracts the member and TCC arrays from the legacy
// JavaScript source and imports both.
func (mg *Migrator) MigrateMembersAndTalks(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			mg.Logger.Warn("legacy index.js not found, skipping members and talks steps", zap.String("path", path))
			return
		}
		mg.Logger.Error("Failed to read legacy index.js", zap.Error(err))
		return
	}
	src := string(raw)

	if records, err := ExtractArrayLiteral(src, "membros"); err != nil {
		mg.Logger.Error("Failed to extract membros array", zap.Error(err))
	} else {
		members := make([]models.Member, 0, len(records))
		for i, rec := range records {
			members = append(members, TransformMember(rec, i))
		}
		if len(members) > 0 {
			if err := mg.DB.Create(&members).Error; err != nil {
				mg.Logger.Error("Failed to insert migrated members", zap.Error(err))
			} else {
				mg.Logger.Info("Migrated members", zap.Int("count", len(members)))
			}
		}
	}

	if records, err := ExtractArrayLiteral(src, "tccTransmissions"); err != nil {
		mg.Logger.Error("Failed to extract tccTransmissions array", zap.Error(err))
	} else {
		var events []models.Event
		for i, rec := range records {
			ev, err := TransformTalk(rec)
			if err != nil {
				mg.Logger.Warn("Skipping talk record with bad date",
					zap.Int("index", i), zap.String("title", rec["title"]), zap.Error(err))
				continue
			}
			events = append(events, ev)
		}
		if len(events) > 0 {
			if err := mg.DB.Create(&events).Error; err != nil {
				mg.Logger.Error("Failed to insert migrated talks", zap.Error(err))
			} else {
				mg.Logger.Info("Migrated talks as events", zap.Int("count", len(events)))
			}
		}
	}
}
