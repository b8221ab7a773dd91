package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Pacotes de infraestrutura e utilitários
	"controlpet/config"
	"controlpet/internal/pkg/cache"
	"controlpet/internal/pkg/database"
	"controlpet/internal/pkg/hash"
	"controlpet/internal/pkg/logger"
	"controlpet/internal/pkg/token"

	// Camadas da aplicação para Injeção de Dependências
	"controlpet/internal/api/aluno"
	"controlpet/internal/api/auth"
	"controlpet/internal/api/avaliacao"
	"controlpet/internal/api/relatorio"
	"controlpet/internal/api/router"
	"controlpet/internal/repository/alunorepo"
	"controlpet/internal/repository/avaliacaorepo"
	"controlpet/internal/repository/relatoriorepo"
	"controlpet/internal/repository/usuariorepo"
	"controlpet/internal/service/alunoservice"
	"controlpet/internal/service/authservice"
	"controlpet/internal/service/avaliacaoservice"
	"controlpet/internal/service/relatorioservice"
)

func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço ControlPET...")
	// O godotenv.Load() procura por um arquivo chamado .env na raiz.
	if err := godotenv.Load(); err != nil {
		// Se o .env não existir, as variáveis essenciais podem estar
		// no ambiente do sistema (ex: Docker).
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis) — usado pelo rate limiter global
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Conexão Redis estabelecida.", nil)

	// C. Serviços utilitários (tokens JWT e hashing de senha)
	tokenSvc := token.NewService(cfg.JWTSecretKey)
	hasher := hash.NewBcryptHasher()

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler

	// A. Repositórios (Camada de Acesso a Dados)
	usuarioRepo := usuariorepo.NewUsuarioRepository(db, cfg.DBTimeout, log)
	alunoRepo := alunorepo.NewAlunoRepository(db, cfg.DBTimeout, log)
	relatorioRepo := relatoriorepo.NewRelatorioRepository(db, cfg.DBTimeout, log)
	avaliacaoRepo := avaliacaorepo.NewAvaliacaoRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositórios inicializados.", nil)

	// B. Serviços (Camada de Lógica de Negócio)
	authSvc := authservice.NewService(usuarioRepo, hasher, tokenSvc, log)
	alunoSvc := alunoservice.NewService(alunoRepo, usuarioRepo, relatorioRepo, log)
	relatorioSvc := relatorioservice.NewService(relatorioRepo, alunoRepo, log)
	avaliacaoSvc := avaliacaoservice.NewService(avaliacaoRepo, relatorioRepo, log)
	log.Debug("Serviços inicializados.", nil)

	// C. Handlers (Camada de Apresentação)
	authHandler := auth.NewHandler(authSvc, log)
	alunoHandler := aluno.NewHandler(alunoSvc, log)
	relatorioHandler := relatorio.NewHandler(relatorioSvc, log)
	avaliacaoHandler := avaliacao.NewHandler(avaliacaoSvc, log)
	log.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(
		authHandler,
		alunoHandler,
		relatorioHandler,
		avaliacaoHandler,
		tokenSvc,
		cacheClient,
		router.RateLimitConfig{
			MaxRequests: cfg.RateLimitMaxRequests,
			Period:      cfg.RateLimitPeriod,
		},
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor ControlPET ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou: %v", err)
		}
	}()

	// Graceful Shutdown (captura de sinal)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
