package server

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/agenthands/cobalt/internal/config"
	"github.com/agenthands/cobalt/internal/core"
	"github.com/agenthands/cobalt/internal/core/scheduling"
	"github.com/agenthands/cobalt/internal/driver"
	"github.com/agenthands/cobalt/internal/llm"
	"github.com/agenthands/cobalt/internal/retrieval"
	"github.com/agenthands/cobalt/internal/store"
)

type Server struct {
	Pipeline *core.Pipeline
	Store    store.Repository
	Graph    driver.GraphDriver
}

// New wires the whole stack from config. The store handle is opened once here
// and passed by reference into the pipeline and scheduling engine; nothing
// holds ambient global state.
func New(cfg *config.Config) (*Server, error) {
	applyEnvOverrides(cfg)

	chatClient, embedderClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("initialize llm client: %w", err)
	}

	graph, err := driver.NewMemgraphDriver(cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password)
	if err != nil {
		return nil, fmt.Errorf("connect to Memgraph: %w", err)
	}
	if err := graph.BuildIndices(context.Background()); err != nil {
		log.Warn().Err(err).Msg("could not build corpus indices")
	}

	repo, err := store.NewSQLite(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var reranker llm.RerankerClient
	if cfg.Retrieval.Rerank {
		reranker = llm.NewSimpleLLMReranker(chatClient)
	}
	retriever := retrieval.NewMemgraphRetriever(graph, embedderClient, reranker)

	engine := scheduling.NewEngine(repo, cfg.Scheduling.UpcomingLimit)
	pipeline := core.NewPipeline(repo, chatClient, retriever, engine, cfg.Dialogue.HistoryWindow, cfg.Retrieval.TopK)

	return &Server{
		Pipeline: pipeline,
		Store:    repo,
		Graph:    graph,
	}, nil
}

func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		cfg.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		cfg.Memgraph.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		cfg.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		cfg.Memgraph.Password = v
	}
	if v := os.Getenv("DB_FILE"); v != "" {
		cfg.Database.Path = v
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/chat", s.Chat)
	r.GET("/health", s.Health)

	return r
}

type ChatRequest struct {
	Query     string `json:"query" binding:"required"`
	SessionID string `json:"session_id"`
}

type ChatResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

func (s *Server) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = "session-" + uuid.NewString()
	}

	state := s.Pipeline.RunTurn(c.Request.Context(), sessionID, req.Query)

	c.JSON(http.StatusOK, ChatResponse{
		SessionID: sessionID,
		Response:  state.Answer,
	})
}

func (s *Server) Health(c *gin.Context) {
	status := gin.H{"status": "ok"}

	if err := s.Store.Ping(c.Request.Context()); err != nil {
		status["status"] = "degraded"
		status["store"] = err.Error()
	}
	if _, err := s.Graph.ExecuteQuery(c.Request.Context(), "RETURN 1", nil); err != nil {
		status["status"] = "degraded"
		status["corpus"] = err.Error()
	}

	c.JSON(http.StatusOK, status)
}
