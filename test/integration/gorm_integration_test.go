package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/model"
	"ai-docchat-be/internal/repository/unitofwork"
	"ai-docchat-be/internal/service"
	"ai-docchat-be/pkg/apperror"
	"ai-docchat-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

const embeddingDim = 768

// unitVector returns a 768-dim unit vector with a single 1 at the given axis
// so cosine similarities in assertions are exact (1 for same axis, 0 for
// orthogonal).
func unitVector(axis int) []float32 {
	v := make([]float32, embeddingDim)
	v[axis] = 1
	return v
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	return gormDB
}

func createTestUser(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	user := &model.User{
		Id:       uuid.New(),
		Email:    "test-integration-" + uuid.New().String() + "@example.com",
		FullName: "Integration Test User",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	t.Cleanup(func() {
		db.Unscoped().Where("id = ?", user.Id).Delete(&model.User{})
	})
	return user.Id
}

func createTestDocument(t *testing.T, uow unitofwork.UnitOfWork, db *gorm.DB, userId uuid.UUID, workspaceId *uuid.UUID, title string) uuid.UUID {
	t.Helper()
	doc := &entity.Document{
		Id:          uuid.New(),
		Title:       title,
		Kind:        "TEXT",
		Content:     "integration test content",
		UserId:      userId,
		WorkspaceId: workspaceId,
		CreatedAt:   time.Now(),
	}
	if err := uow.DocumentRepository().Create(context.Background(), doc); err != nil {
		t.Fatalf("Failed to create test document: %v", err)
	}
	t.Cleanup(func() {
		db.Unscoped().Where("document_id = ?", doc.Id).Delete(&model.DocumentChunk{})
		db.Unscoped().Where("id = ?", doc.Id).Delete(&model.Document{})
	})
	return doc.Id
}

func createTestChunk(t *testing.T, uow unitofwork.UnitOfWork, documentId uuid.UUID, index int, content string, embedding []float32) {
	t.Helper()
	err := uow.DocumentChunkRepository().Create(context.Background(), &entity.DocumentChunk{
		Id:             uuid.New(),
		Content:        content,
		EmbeddingValue: embedding,
		DocumentId:     documentId,
		ChunkIndex:     index,
		CreatedAt:      time.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to create test chunk: %v", err)
	}
}

func TestGormConnection(t *testing.T) {
	gormDB := setupDB(t)

	uowFactory := unitofwork.NewRepositoryFactory(gormDB, embeddingDim)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.WorkspaceRepository())
	assert.NotNil(t, uow.DocumentRepository())
	assert.NotNil(t, uow.DocumentChunkRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err := sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")
}

func TestSimilaritySearchTenantIsolation(t *testing.T) {
	gormDB := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(gormDB, embeddingDim)
	uow := uowFactory.NewUnitOfWork(ctx)

	userA := createTestUser(t, gormDB)
	userB := createTestUser(t, gormDB)

	docA := createTestDocument(t, uow, gormDB, userA, nil, "User A Doc")
	docB := createTestDocument(t, uow, gormDB, userB, nil, "User B Doc")

	createTestChunk(t, uow, docA, 0, "chunk of user A", unitVector(0))
	createTestChunk(t, uow, docB, 0, "chunk of user B", unitVector(0))

	// The query vector matches both chunks perfectly; only the owner's chunk
	// may come back.
	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, unitVector(0), 10, userA, nil)
	assert.NoError(t, err)
	assert.Len(t, scored, 1)
	assert.Equal(t, "chunk of user A", scored[0].Chunk.Content)
	assert.Equal(t, "User A Doc", scored[0].DocumentTitle)
	assert.InDelta(t, 1.0, scored[0].Similarity, 0.001)

	// Unknown tenant: empty result, not an error.
	scored, err = uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, unitVector(0), 10, uuid.New(), nil)
	assert.NoError(t, err)
	assert.Empty(t, scored)
}

func TestSimilaritySearchWorkspaceScope(t *testing.T) {
	gormDB := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(gormDB, embeddingDim)
	uow := uowFactory.NewUnitOfWork(ctx)

	userId := createTestUser(t, gormDB)

	workspace := &entity.Workspace{
		Id:        uuid.New(),
		Name:      "Integration Workspace",
		UserId:    userId,
		CreatedAt: time.Now(),
	}
	err := uow.WorkspaceRepository().Create(ctx, workspace)
	assert.NoError(t, err)
	t.Cleanup(func() {
		gormDB.Unscoped().Where("id = ?", workspace.Id).Delete(&model.Workspace{})
	})

	scopedDoc := createTestDocument(t, uow, gormDB, userId, &workspace.Id, "Scoped Doc")
	globalDoc := createTestDocument(t, uow, gormDB, userId, nil, "Global Doc")

	createTestChunk(t, uow, scopedDoc, 0, "scoped chunk", unitVector(0))
	createTestChunk(t, uow, globalDoc, 0, "global chunk", unitVector(0))

	// Workspace filter on: only the scoped chunk.
	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, unitVector(0), 10, userId, &workspace.Id)
	assert.NoError(t, err)
	assert.Len(t, scored, 1)
	assert.Equal(t, "scoped chunk", scored[0].Chunk.Content)

	// No workspace filter: both chunks.
	scored, err = uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, unitVector(0), 10, userId, nil)
	assert.NoError(t, err)
	assert.Len(t, scored, 2)
}

func TestSimilaritySearchRanking(t *testing.T) {
	gormDB := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(gormDB, embeddingDim)
	uow := uowFactory.NewUnitOfWork(ctx)

	userId := createTestUser(t, gormDB)
	docId := createTestDocument(t, uow, gormDB, userId, nil, "Ranked Doc")

	createTestChunk(t, uow, docId, 0, "orthogonal chunk", unitVector(1))
	createTestChunk(t, uow, docId, 1, "matching chunk", unitVector(0))

	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, unitVector(0), 10, userId, nil)
	assert.NoError(t, err)
	assert.Len(t, scored, 2)
	assert.Equal(t, "matching chunk", scored[0].Chunk.Content)
	assert.Greater(t, scored[0].Similarity, scored[1].Similarity)

	// Limit respected.
	scored, err = uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, unitVector(0), 1, userId, nil)
	assert.NoError(t, err)
	assert.Len(t, scored, 1)
}

func TestChunkCreateDimensionMismatch(t *testing.T) {
	gormDB := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(gormDB, embeddingDim)
	uow := uowFactory.NewUnitOfWork(ctx)

	userId := createTestUser(t, gormDB)
	docId := createTestDocument(t, uow, gormDB, userId, nil, "Mismatch Doc")

	err := uow.DocumentChunkRepository().Create(ctx, &entity.DocumentChunk{
		Id:             uuid.New(),
		Content:        "wrong dimension",
		EmbeddingValue: []float32{0.1, 0.2, 0.3},
		DocumentId:     docId,
		ChunkIndex:     0,
		CreatedAt:      time.Now(),
	})
	assert.True(t, apperror.IsDimensionMismatch(err))

	count, err := uow.DocumentChunkRepository().CountByDocumentId(ctx, docId)
	assert.NoError(t, err)
	assert.Zero(t, count)
}

func TestChunkCreateMissingParent(t *testing.T) {
	gormDB := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(gormDB, embeddingDim)
	uow := uowFactory.NewUnitOfWork(ctx)

	err := uow.DocumentChunkRepository().Create(ctx, &entity.DocumentChunk{
		Id:             uuid.New(),
		Content:        "orphan chunk",
		EmbeddingValue: unitVector(0),
		DocumentId:     uuid.New(),
		ChunkIndex:     0,
		CreatedAt:      time.Now(),
	})
	assert.True(t, apperror.IsStorageError(err))
}

func TestWorkspaceDeleteDetachesDocuments(t *testing.T) {
	gormDB := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(gormDB, embeddingDim)
	uow := uowFactory.NewUnitOfWork(ctx)

	userId := createTestUser(t, gormDB)

	workspace := &entity.Workspace{
		Id:        uuid.New(),
		Name:      "Doomed Workspace",
		UserId:    userId,
		CreatedAt: time.Now(),
	}
	err := uow.WorkspaceRepository().Create(ctx, workspace)
	assert.NoError(t, err)
	t.Cleanup(func() {
		gormDB.Unscoped().Where("id = ?", workspace.Id).Delete(&model.Workspace{})
	})

	docId := createTestDocument(t, uow, gormDB, userId, &workspace.Id, "Orphaned Doc")

	workspaceService := service.NewWorkspaceService(uowFactory)
	err = workspaceService.Delete(ctx, userId, workspace.Id)
	assert.NoError(t, err)

	// The document survives the workspace and is re-scoped to the user.
	docs, err := uow.DocumentRepository().FindAllWithChunkCounts(ctx, userId, nil)
	assert.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Equal(t, docId, docs[0].Id)
	assert.Nil(t, docs[0].WorkspaceId)

	// The deleted workspace no longer matches as a scope.
	docs, err = uow.DocumentRepository().FindAllWithChunkCounts(ctx, userId, &workspace.Id)
	assert.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentListWithChunkCounts(t *testing.T) {
	gormDB := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(gormDB, embeddingDim)
	uow := uowFactory.NewUnitOfWork(ctx)

	userId := createTestUser(t, gormDB)
	docId := createTestDocument(t, uow, gormDB, userId, nil, "Counted Doc")

	createTestChunk(t, uow, docId, 0, "first", unitVector(0))
	createTestChunk(t, uow, docId, 1, "second", unitVector(1))

	docs, err := uow.DocumentRepository().FindAllWithChunkCounts(ctx, userId, nil)
	assert.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Equal(t, int64(2), docs[0].ChunkCount)
}
