package main

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"gsipp-backend/auth"
	"gsipp-backend/config"
	"gsipp-backend/models"
	"gsipp-backend/providers/crossref"
	"gsipp-backend/services"
	"gsipp-backend/storage"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var adminWritesCounter prometheus.Counter

func init() {
	adminWritesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "admin_records_written_total",
			Help: "Total number of records created or updated through the admin API.",
		},
	)
	prometheus.MustRegister(adminWritesCounter)
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	if gin.Mode() == gin.DebugMode {
		logging.Info("Debug mode detected. Dropping tables for fresh start.")
		db.Migrator().DropTable(&models.Member{}, &models.NewsItem{}, &models.Publication{},
			&models.Event{}, &models.Edital{}, &models.AdminUser{})
	}
	logging.Info("Running database auto-migration...")
	db.AutoMigrate(&models.Member{}, &models.NewsItem{}, &models.Publication{},
		&models.Event{}, &models.Edital{}, &models.AdminUser{})

	auth.SeedAdmin(db, cfg, logging)

	sessions := auth.NewManager(db, cfg, logging)
	sessions.OnChange(func(ev auth.ChangeEvent) {
		logging.Info("Session change",
			zap.String("kind", ev.Kind),
			zap.String("email", ev.Session.Email),
			zap.String("session_id", ev.Session.ID))
	})

	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}

	router := gin.Default()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := router.Group("/admin", sessions.Middleware())

	setupAuthRoutes(router, sessions, logging)
	setupMemberRoutes(router, admin, db, logging)
	setupNewsRoutes(router, admin, db, logging)
	setupPublicationRoutes(router, admin, db, cfg, logging)
	setupEventRoutes(router, admin, db, logging)
	setupEditalRoutes(router, admin, db, logging)
	setupDashboardRoutes(admin, db, logging)
	setupUploadRoutes(admin, s3Client, cfg, logging)

	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.SessionPurgeSchedule, func() {
		if purged := sessions.PurgeExpired(); purged > 0 {
			logging.Info("Purged expired sessions", zap.Int("count", purged))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

// parseDatePtr turns an optional "YYYY-MM-DD" form value into a midday
// anchored date; empty input stays nil.
func parseDatePtr(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := services.ParseCalendarDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func setupAuthRoutes(router *gin.Engine, sessions *auth.Manager, log *zap.Logger) {
	rg := router.Group("/auth")

	rg.POST("/login", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}
		token, sess, err := sessions.SignIn(req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			log.Error("Sign-in failed", zap.String("email", req.Email), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "session": sess})
	})

	authed := rg.Group("", sessions.Middleware())
	authed.POST("/logout", func(c *gin.Context) {
		sess, _ := auth.CurrentSession(c)
		sessions.SignOut(sess.ID)
		c.JSON(http.StatusOK, gin.H{"message": "signed out"})
	})
	authed.GET("/session", func(c *gin.Context) {
		sess, _ := auth.CurrentSession(c)
		c.JSON(http.StatusOK, sess)
	})
	authed.PUT("/profile", func(c *gin.Context) {
		sess, _ := auth.CurrentSession(c)
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		updated, err := sessions.UpdateProfile(sess.ID, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrNothingToUpdate), errors.Is(err, auth.ErrWeakPassword):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				log.Error("Profile update failed", zap.String("email", sess.Email), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
			}
			return
		}
		c.JSON(http.StatusOK, updated)
	})
}

// publicMemberColumns keeps CPF, workload and entry/exit dates off the
// public site.
const publicMemberColumns = "id, created_at, updated_at, nome, cargo, area_pesquisa, lattes_url, linkedin_url, foto_url, ordem"

func setupMemberRoutes(router *gin.Engine, admin *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	router.GET("/membros", func(c *gin.Context) {
		var members []models.Member
		if err := db.Select(publicMemberColumns).Order("ordem asc, id asc").Find(&members).Error; err != nil {
			log.Error("Database query for members failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, members)
	})

	rg := admin.Group("/membros")

	rg.GET("", func(c *gin.Context) {
		var members []models.Member
		if err := db.Order("ordem asc, id asc").Find(&members).Error; err != nil {
			log.Error("Database query for members failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, members)
	})

	type memberPayload struct {
		Nome         string `json:"nome" binding:"required"`
		Cargo        string `json:"cargo"`
		AreaPesquisa string `json:"area_pesquisa"`
		LattesURL    string `json:"lattes_url"`
		LinkedinURL  string `json:"linkedin_url"`
		Email        string `json:"email"`
		FotoURL      string `json:"foto_url"`
		CPF          string `json:"cpf"`
		CargaHoraria string `json:"carga_horaria"`
		DataEntrada  string `json:"data_entrada"`
		DataSaida    string `json:"data_saida"`
		Ordem        int    `json:"ordem"`
	}

	applyMemberPayload := func(m *models.Member, p memberPayload) error {
		entrada, err := parseDatePtr(p.DataEntrada)
		if err != nil {
			return err
		}
		saida, err := parseDatePtr(p.DataSaida)
		if err != nil {
			return err
		}
		m.Nome = p.Nome
		m.Cargo = p.Cargo
		m.AreaPesquisa = p.AreaPesquisa
		m.LattesURL = p.LattesURL
		m.LinkedinURL = p.LinkedinURL
		m.Email = p.Email
		m.FotoURL = p.FotoURL
		m.CPF = p.CPF
		m.CargaHoraria = p.CargaHoraria
		m.DataEntrada = entrada
		m.DataSaida = saida
		m.Ordem = p.Ordem
		return nil
	}

	rg.POST("", func(c *gin.Context) {
		var req memberPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		var member models.Member
		if err := applyMemberPayload(&member, req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
			return
		}
		if err := db.Create(&member).Error; err != nil {
			log.Error("Failed to create member", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create member"})
			return
		}
		adminWritesCounter.Inc()
		c.JSON(http.StatusCreated, member)
	})

	rg.PUT("/:id", func(c *gin.Context) {
		id := c.Param("id")
		var member models.Member
		if err := db.First(&member, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
				return
			}
			log.Error("DB error fetching member", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		var req memberPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := applyMemberPayload(&member, req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
			return
		}
		if err := db.Save(&member).Error; err != nil {
			log.Error("Failed to update member", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update member"})
			return
		}
		adminWritesCounter.Inc()
		c.JSON(http.StatusOK, member)
	})

	rg.DELETE("/:id", func(c *gin.Context) {
		id := c.Param("id")
		var member models.Member
		if err := db.First(&member, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
				return
			}
			log.Error("DB error fetching member", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if err := db.Delete(&member).Error; err != nil {
			log.Error("Failed to delete member", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete member"})
			return
		}
		if err := scrubMemberFromEvents(db, member.ID); err != nil {
			// Deletion succeeded; dangling references are reported, not rolled back.
			log.Error("Failed to scrub member references from events",
				zap.Uint("member_id", member.ID), zap.Error(err))
		}
		c.JSON(http.StatusOK, gin.H{"message": "member deleted"})
	})
}

// scrubMemberFromEvents nullifies references to a deleted member so events
// never point at identifiers that no longer resolve.
func scrubMemberFromEvents(db *gorm.DB, memberID uint) error {
	if err := db.Model(&models.Event{}).
		Where("membro_estudante_id = ?", memberID).
		Update("membro_estudante_id", nil).Error; err != nil {
		return err
	}

	idStr := strconv.FormatUint(uint64(memberID), 10)
	var events []models.Event
	if err := db.
		Where("? = ANY(membros_palestrantes_ids) OR ? = ANY(membros_orientadores_ids)", idStr, idStr).
		Find(&events).Error; err != nil {
		return err
	}
	for i := range events {
		events[i].MembrosPalestrantesIDs = removeID(events[i].MembrosPalestrantesIDs, idStr)
		events[i].MembrosOrientadoresIDs = removeID(events[i].MembrosOrientadoresIDs, idStr)
		if err := db.Model(&events[i]).Updates(map[string]interface{}{
			"membros_palestrantes_ids": events[i].MembrosPalestrantesIDs,
			"membros_orientadores_ids": events[i].MembrosOrientadoresIDs,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func setupNewsRoutes(router *gin.Engine, admin *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	router.GET("/noticias", func(c *gin.Context) {
		var items []models.NewsItem
		if err := db.Where("publicado = ?", true).
			Order("data_publicacao desc").Find(&items).Error; err != nil {
			log.Error("Database query for news failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, items)
	})

	// Detail lookup filters on publicado like the listing does; drafts are
	// only reachable through the admin API.
	router.GET("/noticias/:slug", func(c *gin.Context) {
		slug := c.Param("slug")
		var item models.NewsItem
		if err := db.Where("slug = ? AND publicado = ?", slug, true).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "news item not found"})
				return
			}
			log.Error("DB error fetching news item", zap.String("slug", slug), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		type NewsItemWithHTML struct {
			models.NewsItem
			ConteudoHTML  string `json:"conteudo_html"`
			DataFormatada string `json:"data_formatada,omitempty"`
		}
		resp := NewsItemWithHTML{
			NewsItem:     item,
			ConteudoHTML: services.RenderMarkdown(item.Conteudo),
		}
		if item.DataPublicacao != nil {
			resp.DataFormatada = services.FormatLong(*item.DataPublicacao)
		}
		c.JSON(http.StatusOK, resp)
	})

	rg := admin.Group("/noticias")

	rg.GET("", func(c *gin.Context) {
		var items []models.NewsItem
		if err := db.Order("data_publicacao desc").Find(&items).Error; err != nil {
			log.Error("Database query for news failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, items)
	})

	type newsPayload struct {
		Titulo         string `json:"titulo" binding:"required"`
		Resumo         string `json:"resumo"`
		Conteudo       string `json:"conteudo"`
		ImagemCapaURL  string `json:"imagem_capa_url"`
		DataPublicacao string `json:"data_publicacao"`
		Publicado      *bool  `json:"publicado"`
	}

	rg.POST("", func(c *gin.Context) {
		var req newsPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		slug := services.Slugify(req.Titulo)
		if slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title does not yield a usable slug"})
			return
		}
		slug, err := uniqueSlug(db, slug)
		if err != nil {
			log.Error("Slug lookup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		published, err := parseDatePtr(req.DataPublicacao)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
			return
		}
		if published == nil {
			now := services.StartOfDay(time.Now()).Add(12 * time.Hour)
			published = &now
		}

		item := models.NewsItem{
			Titulo:         req.Titulo,
			Slug:           slug,
			Resumo:         req.Resumo,
			Conteudo:       req.Conteudo,
			ImagemCapaURL:  req.ImagemCapaURL,
			DataPublicacao: published,
		}
		if req.Publicado != nil {
			item.Publicado = *req.Publicado
		}
		if err := db.Create(&item).Error; err != nil {
			log.Error("Failed to create news item", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create news item"})
			return
		}
		adminWritesCounter.Inc()
		c.JSON(http.StatusCreated, item)
	})

	rg.PUT("/:id", func(c *gin.Context) {
		id := c.Param("id")
		var item models.NewsItem
		if err := db.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "news item not found"})
				return
			}
			log.Error("DB error fetching news item", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		var req newsPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		published, err := parseDatePtr(req.DataPublicacao)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
			return
		}

		// The slug is never recomputed on edit, so published links survive
		// title changes.
		item.Titulo = req.Titulo
		item.Resumo = req.Resumo
		item.Conteudo = req.Conteudo
		item.ImagemCapaURL = req.ImagemCapaURL
		if published != nil {
			item.DataPublicacao = published
		}
		if req.Publicado != nil {
			item.Publicado = *req.Publicado
		}
		if err := db.Save(&item).Error; err != nil {
			log.Error("Failed to update news item", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update news item"})
			return
		}
		adminWritesCounter.Inc()
		c.JSON(http.StatusOK, item)
	})

	rg.DELETE("/:id", func(c *gin.Context) {
		id := c.Param("id")
		if err := db.Delete(&models.NewsItem{}, id).Error; err != nil {
			log.Error("Failed to delete news item", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete news item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "news item deleted"})
	})
}

// uniqueSlug disambiguates derived slugs with a numeric suffix so two news
// items with the same title never collide silently.
func uniqueSlug(db *gorm.DB, base string) (string, error) {
	candidate := base
	for i := 2; ; i++ {
		var count int64
		if err := db.Model(&models.NewsItem{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}

func setupPublicationRoutes(router *gin.Engine, admin *gin.RouterGroup, db *gorm.DB, cfg *config.Config, log *zap.Logger) {
	doiFetcher := crossref.NewFetcher(cfg.CrossrefBaseURL, log)

	router.GET("/publicacoes", func(c *gin.Context) {
		var pubs []models.Publication
		if err := db.Order("ano desc, created_at desc").Find(&pubs).Error; err != nil {
			log.Error("Database query for publications failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, pubs)
	})

	rg := admin.Group("/publicacoes")

	rg.GET("", func(c *gin.Context) {
		var pubs []models.Publication
		if err := db.Order("ano desc, created_at desc").Find(&pubs).Error; err != nil {
			log.Error("Database query for publications failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, pubs)
	})

	type publicationPayload struct {
		Titulo  string `json:"titulo" binding:"required"`
		Autores string `json:"autores" binding:"required"`
		Ano     int    `json:"ano" binding:"required"`
		Tipo    string `json:"tipo"`
		LinkURL string `json:"link_url"`
	}

	rg.POST("", func(c *gin.Context) {
		var req publicationPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		pub := models.Publication{
			Titulo:  req.Titulo,
			Autores: req.Autores,
			Ano:     req.Ano,
			Tipo:    req.Tipo,
			LinkURL: req.LinkURL,
		}
		if err := db.Create(&pub).Error; err != nil {
			log.Error("Failed to create publication", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create publication"})
			return
		}
		adminWritesCounter.Inc()
		c.JSON(http.StatusCreated, pub)
	})

	rg.PUT("/:id", func(c *gin.Context) {
		id := c.Param("id")
		var pub models.Publication
		if err := db.First(&pub, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "publication not found"})
				return
			}
			log.Error("DB error fetching publication", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		var req publicationPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		pub.Titulo = req.Titulo
		pub.Autores = req.Autores
		pub.Ano = req.Ano
		pub.Tipo = req.Tipo
		pub.LinkURL = req.LinkURL
		if err := db.Save(&pub).Error; err != nil {
			log.Error("Failed to update publication", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update publication"})
			return
		}
		adminWritesCounter.Inc()
		c.JSON(http.StatusOK, pub)
	})

	rg.DELETE("/:id", func(c *gin.Context) {
		id := c.Param("id")
		if err := db.Delete(&models.Publication{}, id).Error; err != nil {
			log.Error("Failed to delete publication", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete publication"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "publication deleted"})
	})

	rg.POST("/importar", func(c *gin.Context) {
		var req struct {
			DOI string `json:"doi" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "doi is required"})
			return
		}
		pub, err := doiFetcher.Lookup(req.DOI)
		if err != nil {
			log.Warn("DOI lookup failed", zap.String("doi", req.DOI), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "could not resolve DOI"})
			return
		}
		if err := db.Create(&pub).Error; err != nil {
			log.Error("Failed to create imported publication", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create publication"})
			return
		}
		adminWritesCounter.Inc()
		c.JSON(http.StatusCreated, pub)
	})
}

func eventDate(e models.Event) time.Time {
	if e.DataEvento == nil {
		return time.Time{} // undated events sort as long past
	}
	return *e.DataEvento
}

// orderEvents splits an event listing for display. Upcoming is always
// soonest-first. The public agenda shows the freshest past events first;
// the admin table keeps past ascending, same order the legacy panel used.
func orderEvents[T any](items []T, dateOf func(T) time.Time, now time.Time, pastAscending bool) (upcoming, past []T) {
	upcoming, past = services.Partition(items, dateOf, now)
	services.SortByDate(past, dateOf, pastAscending)
	return upcoming, past
}

func setupEventRoutes(router *gin.Engine, admin *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {

	router.GET("/eventos", func(c *gin.Context) {
		var events []models.Event
		if err := db.Find(&events).Error; err != nil {
			log.Error("Database query for events failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		upcoming, past := orderEvents(events, eventDate, time.Now(), false)
		c.JSON(http.StatusOK, gin.H{"proximos": upcoming, "encerrados": past})
	})

	rg := admin.Group("/eventos")

	// EventWithNames resolves the raw member identifiers into display names
	// so the admin list needs no extra round trips.
	type EventWithNames struct {
		models.Event
		NomeEstudante     string   `json:"nome_estudante,omitempty"`
		NomesPalestrantes []string `json:"nomes_palestrantes,omitempty"`
		NomesOrientadores []string `json:"nomes_orientadores,omitempty"`
		DataFormatada     string   `json:"data_formatada,omitempty"`
	}

	rg.GET("", func(c *gin.Context) {
		var events []models.Event
		if err := db.Order("data_evento asc").Find(&events).Error; err != nil {
			log.Error("Database query for events failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		var members []models.Member
		if err := db.Select("id, nome").Order("nome asc").Find(&members).Error; err != nil {
			log.Error("Database query for member names failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		nameByID := make(map[string]string, len(members))
		for _, m := range members {
			nameByID[strconv.FormatUint(uint64(m.ID), 10)] = m.Nome
		}
		resolve := func(ids []string) []string {
			var names []string
			for _, id := range ids {
				if name, ok := nameByID[id]; ok {
					names = append(names, name)
				}
			}
			return names
		}

		enriched := make([]EventWithNames, 0, len(events))
		for _, ev := range events {
			e := EventWithNames{
				Event:             ev,
				NomesPalestrantes: resolve(ev.MembrosPalestrantesIDs),
				NomesOrientadores: resolve(ev.MembrosOrientadoresIDs),
			}
			if ev.MembroEstudanteID != nil {
				e.NomeEstudante = nameByID[strconv.FormatUint(uint64(*ev.MembroEstudanteID), 10)]
			}
			if ev.DataEvento != nil {
				e.DataFormatada = services.FormatShort(*ev.DataEvento)
			}
			enriched = append(enriched, e)
		}

		upcoming, past := orderEvents(enriched, func(e EventWithNames) time.Time {
			return eventDate(e.Event)
		}, time.Now(), true)
		c.JSON(http.StatusOK, gin.H{"proximos": upcoming, "encerrados": past})
	})

	type eventPayload struct {
		Titulo                 string   `json:"titulo" binding:"required"`
		Descricao              string   `json:"descricao"`
		DataEvento             string   `json:"data_evento" binding:"required"`
		DataEvento2            string   `json:"data_evento_2"`
		Horario                string   `json:"horario"`
		Duracao                string   `json:"duracao"`
		Local                  string   `json:"local"`
		Tipo                   string   `json:"tipo"`
		PalestranteExterno     string   `json:"palestrante_externo"`
		LinkTransmissao        string   `json:"link_transmissao"`
		LinkInscricao          string   `json:"link_inscricao"`
		LinkCertificado        string   `json:"link_certificado"`
		MembroEstudanteID      *uint    `json:"membro_estudante_id"`
		MembrosPalestrantesIDs []string `json:"membros_palestrantes_ids"`
		MembrosOrientadoresIDs []string `json:"membros_orientadores_ids"`
	}

	applyEventPayload := func(ev *models.Event, p eventPayload) error {
		date, err := services.ParseCalendarDate(p.DataEvento)
		if err != nil {
			return err
		}
		date2, err := parseDatePtr(p.DataEvento2)
		if err != nil {
			return err
		}
		ev.Titulo = p.Titulo
		ev.Descricao = p.Descricao
		ev.DataEvento = &date
		ev.DataEvento2 = date2
		ev.Horario = p.Horario
		ev.Duracao = p.Duracao
		ev.Local = p.Local
		ev.Tipo = p.Tipo
		if ev.Tipo == "" {
			ev.Tipo = models.TipoEvento
		}
		ev.PalestranteExterno = p.PalestranteExterno
		ev.LinkTransmissao = p.LinkTransmissao
		ev.LinkInscricao = p.LinkInscricao
		ev.LinkCertificado = p.LinkCertificado
		ev.MembroEstudanteID = p.MembroEstudanteID
		ev.MembrosPalestrantesIDs = p.MembrosPalestrantesIDs
		ev.MembrosOrientadoresIDs = p.MembrosOrientadoresIDs
		return nil
	}

	rg.POST("", func(c *gin.Context) {
		var req eventPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		var ev models.Event
		if err := applyEventPayload(&ev, req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
			return
		}
		if err := db.Create(&ev).Error; err != nil {
			log.Error("Failed to create event", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
			return
		}
		adminWritesCounter.Inc()
		c.JSON(http.StatusCreated, ev)
	})

	rg.PUT("/:id", func(c *gin.Context) {
		id := c.Param("id")
		var ev models.Event
		if err := db.First(&ev, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
				return
			}
			log.Error("DB error fetching event", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		var req eventPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := applyEventPayload(&ev, req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
			return
		}
		if err := db.Save(&ev).Error; err != nil {
			log.Error("Failed to update event", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event"})
			return
		}
		adminWritesCounter.Inc()
		c.JSON(http.StatusOK, ev)
	})

	rg.DELETE("/:id", func(c *gin.Context) {
		id := c.Param("id")
		if err := db.Delete(&models.Event{}, id).Error; err != nil {
			log.Error("Failed to delete event", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
	})
}

func setupEditalRoutes(router *gin.Engine, admin *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	router.GET("/editais", func(c *gin.Context) {
		var editais []models.Edital
		if err := db.Order("ordem asc, id asc").Find(&editais).Error; err != nil {
			log.Error("Database query for editais failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, editais)
	})

	rg := admin.Group("/editais")

	rg.GET("", func(c *gin.Context) {
		var editais []models.Edital
		if err := db.Order("ordem asc, id asc").Find(&editais).Error; err != nil {
			log.Error("Database query for editais failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, editais)
	})

	type editalPayload struct {
		Titulo         string `json:"titulo" binding:"required"`
		Descricao      string `json:"descricao"`
		LinkPDF        string `json:"link_pdf"`
		DataAbertura   string `json:"data_abertura"`
		DataFechamento string `json:"data_fechamento"`
		Status         string `json:"status"`
		Ordem          int    `json:"ordem"`
	}

	validStatus := map[string]bool{
		models.EditalAberto:    true,
		models.EditalFechado:   true,
		models.EditalEmAnalise: true,
	}

	applyEditalPayload := func(ed *models.Edital, p editalPayload) error {
		abertura, err := parseDatePtr(p.DataAbertura)
		if err != nil {
			return err
		}
		fechamento, err := parseDatePtr(p.DataFechamento)
		if err != nil {
			return err
		}
		ed.Titulo = p.Titulo
		ed.Descricao = p.Descricao
		ed.LinkPDF = p.LinkPDF
		ed.DataAbertura = abertura
		ed.DataFechamento = fechamento
		// Status is set by the admin, never derived from the dates.
		ed.Status = p.Status
		if ed.Status == "" {
			ed.Status = models.EditalAberto
		}
		ed.Ordem = p.Ordem
		return nil
	}

	rg.POST("", func(c *gin.Context) {
		var req editalPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.Status != "" && !validStatus[req.Status] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		var edital models.Edital
		if err := applyEditalPayload(&edital, req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
			return
		}
		if err := db.Create(&edital).Error; err != nil {
			log.Error("Failed to create edital", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create edital"})
			return
		}
		adminWritesCounter.Inc()
		c.JSON(http.StatusCreated, edital)
	})

	rg.PUT("/:id", func(c *gin.Context) {
		id := c.Param("id")
		var edital models.Edital
		if err := db.First(&edital, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "edital not found"})
				return
			}
			log.Error("DB error fetching edital", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		var req editalPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.Status != "" && !validStatus[req.Status] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		if err := applyEditalPayload(&edital, req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
			return
		}
		if err := db.Save(&edital).Error; err != nil {
			log.Error("Failed to update edital", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update edital"})
			return
		}
		adminWritesCounter.Inc()
		c.JSON(http.StatusOK, edital)
	})

	rg.DELETE("/:id", func(c *gin.Context) {
		id := c.Param("id")
		if err := db.Delete(&models.Edital{}, id).Error; err != nil {
			log.Error("Failed to delete edital", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete edital"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "edital deleted"})
	})
}

func setupDashboardRoutes(admin *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	admin.GET("/dashboard", func(c *gin.Context) {
		var membros, noticias, publicacoes, eventos int64
		counts := []struct {
			model interface{}
			dest  *int64
		}{
			{&models.Member{}, &membros},
			{&models.NewsItem{}, &noticias},
			{&models.Publication{}, &publicacoes},
			{&models.Event{}, &eventos},
		}
		for _, ct := range counts {
			if err := db.Model(ct.model).Count(ct.dest).Error; err != nil {
				log.Error("Dashboard count query failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
				return
			}
		}

		var recentMembers []models.Member
		if err := db.Order("created_at desc").Limit(5).Find(&recentMembers).Error; err != nil {
			log.Error("Dashboard recent members query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		var recentNews []models.NewsItem
		if err := db.Order("data_publicacao desc").Limit(3).Find(&recentNews).Error; err != nil {
			log.Error("Dashboard recent news query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		today := services.StartOfDay(time.Now())
		var upcomingEvents []models.Event
		if err := db.Where("data_evento >= ?", today).
			Order("data_evento asc").Limit(3).Find(&upcomingEvents).Error; err != nil {
			log.Error("Dashboard upcoming events query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		type cargoCount struct {
			Cargo string `json:"cargo"`
			Total int64  `json:"total"`
		}
		var distribution []cargoCount
		if err := db.Model(&models.Member{}).
			Select("cargo, count(*) as total").Group("cargo").Scan(&distribution).Error; err != nil {
			log.Error("Dashboard role distribution query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"contagens": gin.H{
				"membros":     membros,
				"noticias":    noticias,
				"publicacoes": publicacoes,
				"eventos":     eventos,
			},
			"membros_recentes":    recentMembers,
			"noticias_recentes":   recentNews,
			"proximos_eventos":    upcomingEvents,
			"distribuicao_cargos": distribution,
		})
	})
}

const maxUploadBytes = 10 << 20

func setupUploadRoutes(admin *gin.RouterGroup, s3Client *s3.Client, cfg *config.Config, log *zap.Logger) {
	admin.POST("/uploads", func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
			return
		}
		if fileHeader.Size > maxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the upload limit"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			log.Error("Failed to open uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			log.Error("Failed to read uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}

		key := storage.ObjectKey(cfg.UploadPath, fileHeader.Filename)
		url, err := storage.UploadPublicFile(c.Request.Context(), s3Client, cfg, key, contentType, data)
		if err != nil {
			log.Error("Upload to object storage failed", zap.String("key", key), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
			return
		}

		log.Info("Stored uploaded file", zap.String("key", key), zap.Int64("size", fileHeader.Size))
		c.JSON(http.StatusCreated, gin.H{"url": url, "key": key})
	})
}
