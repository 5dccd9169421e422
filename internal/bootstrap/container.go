package bootstrap

import (
	"log"

	"ai-docchat-be/internal/config"
	"ai-docchat-be/internal/controller"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/unitofwork"
	"ai-docchat-be/internal/service"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/llm/factory"
	"ai-docchat-be/pkg/rag/contextbuilder"
	"ai-docchat-be/pkg/rag/retriever"
	"ai-docchat-be/pkg/transcript"
	"ai-docchat-be/pkg/websearch"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	WorkspaceController  controller.IWorkspaceController
	DocumentController   controller.IDocumentController
	ChatController       controller.IChatController
	StudyNotesController controller.IStudyNotesController

	// Background Services (Exposed for main.go to run)
	IngestionService service.IIngestionService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db, cfg.Ai.EmbeddingDimension)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
			cfg.Ai.EmbeddingDimension,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.Groq,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Web search is opt-in: without the master switch and credentials the
	// retriever never attempts augmentation.
	var searchProvider websearch.SearchProvider
	if cfg.Ai.WebSearchEnabled && cfg.Keys.GoogleSearch != "" && cfg.Keys.GoogleSearchEngine != "" {
		searchProvider, err = websearch.NewGoogleProvider(cfg.Keys.GoogleSearch, cfg.Keys.GoogleSearchEngine)
		if err != nil {
			log.Printf("[WARN] Failed to initialize web search provider: %v (augmentation disabled)", err)
			searchProvider = nil
		} else {
			log.Printf("[INFO] Web search augmentation: ENABLED")
		}
	} else {
		log.Printf("[INFO] Web search augmentation: disabled")
	}

	// 4. Retrieval Pipeline
	chunkSearcher := service.NewChunkSearcher(uowFactory)
	ragRetriever := retriever.New(
		embeddingProvider,
		chunkSearcher,
		searchProvider,
		retriever.Config{
			TopK:          cfg.Ai.TopK,
			MinSimilarity: cfg.Ai.MinSimilarity,
		},
		sysLogger,
	)
	assembler := contextbuilder.NewAssembler(cfg.Ai.ContextMaxChars)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Keys.IngestTopic, pubSub)
	ingestionService := service.NewIngestionService(
		pubSub,
		cfg.Keys.IngestTopic,
		uowFactory,
		embeddingProvider,
		cfg.Ai.ChunkSize,
	)

	workspaceService := service.NewWorkspaceService(uowFactory)
	documentService := service.NewDocumentService(uowFactory, publisherService)
	chatService := service.NewChatService(ragRetriever, assembler, llmProvider)
	studyNotesService := service.NewStudyNotesService(transcript.NewYouTubeProvider(), llmProvider)

	// 6. Controllers
	return &Container{
		WorkspaceController:  controller.NewWorkspaceController(workspaceService),
		DocumentController:   controller.NewDocumentController(documentService),
		ChatController:       controller.NewChatController(chatService),
		StudyNotesController: controller.NewStudyNotesController(studyNotesService),

		IngestionService: ingestionService,
	}
}
