package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/internal/repository/unitofwork"
	"exam-proctoring-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
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

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.StudentRepository())
	assert.NotNil(t, uow.CheatingEventRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Exam Paper Repository", func(t *testing.T) {
		count, err := uow.ExamPaperRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Exam paper count: %d", count)
	})

	t.Run("Check Cheating Event Dedup", func(t *testing.T) {
		ctx := context.Background()
		studentId := uuid.New()
		attemptId := uuid.New()

		repo := uow.CheatingEventRepository()

		first, created, err := repo.GetOrCreateOpen(ctx, studentId, attemptId, entity.EventObjectDetected)
		require.NoError(t, err)
		assert.True(t, created)

		second, created, err := repo.GetOrCreateOpen(ctx, studentId, attemptId, entity.EventObjectDetected)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.Id, second.Id)
	})

	t.Run("Check Tab Switch Counter", func(t *testing.T) {
		ctx := context.Background()
		studentId := uuid.New()
		attemptId := uuid.New()

		repo := uow.CheatingEventRepository()
		event, _, err := repo.GetOrCreateOpen(ctx, studentId, attemptId, entity.EventTabSwitch)
		require.NoError(t, err)

		count, err := repo.IncrementTabSwitch(ctx, event.Id)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		count, err = repo.IncrementTabSwitch(ctx, event.Id)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}
