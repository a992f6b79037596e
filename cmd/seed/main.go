package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"curator/internal/config"
	"curator/internal/domain/services"
	"curator/internal/repository/postgres"
	"curator/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before creating the schema (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed a demo tenant")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("🌱 Bootstrapping database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	// Seed a demo tenant through the service layer so counters and
	// training flags are maintained the same way the server maintains
	// them.
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	clientRepo := postgres.NewClientRepository(repoConfig)
	teamspaceRepo := postgres.NewTeamspaceRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	docRepo := postgres.NewDocumentRepository(repoConfig)
	byteRepo := postgres.NewByteRepository(repoConfig)
	recRepo := postgres.NewRecommendationRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	clientService := service.NewClientService(clientRepo, logger)
	teamspaceService := service.NewTeamspaceService(teamspaceRepo, clientRepo, logger)
	folderService := service.NewFolderService(folderRepo, docRepo, clientRepo, recRepo, byteRepo, txManager, logger)

	c, err := clientService.CreateClient(ctx, &services.CreateClientRequest{Name: "Demo Client"})
	if err != nil {
		log.Fatalf("Failed to seed demo client: %v", err)
	}
	log.Printf("✅ Created client %s", c.ID)

	ts, err := teamspaceService.CreateTeamspace(ctx, &services.CreateTeamspaceRequest{
		ClientID: c.ID,
		Name:     "General",
	})
	if err != nil {
		log.Fatalf("Failed to seed demo teamspace: %v", err)
	}
	log.Printf("✅ Created teamspace %s", ts.ID)

	f, err := folderService.CreateFolder(ctx, &services.CreateFolderRequest{
		ClientID:    c.ID,
		TeamspaceID: &ts.ID,
		Name:        "Getting Started",
	})
	if err != nil {
		log.Fatalf("Failed to seed demo folder: %v", err)
	}
	log.Printf("✅ Created folder %s", f.ID)

	log.Println("🎉 Bootstrap complete!")
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// Enable UUID extension
	if _, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\""); err != nil {
		return err
	}

	createClients := `
		CREATE TABLE IF NOT EXISTS ` + tables.Clients + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name TEXT NOT NULL UNIQUE,
			no_of_documents INTEGER NOT NULL DEFAULT 0,
			no_of_folders INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createClients); err != nil {
		return err
	}

	createTeamspaces := `
		CREATE TABLE IF NOT EXISTS ` + tables.Teamspaces + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			client_id UUID NOT NULL REFERENCES ` + tables.Clients + `(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			is_trained BOOLEAN NOT NULL DEFAULT FALSE,
			re_training_required BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE(client_id, name)
		)
	`
	if _, err := pool.Exec(ctx, createTeamspaces); err != nil {
		return err
	}

	createFolders := `
		CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			client_id UUID NOT NULL REFERENCES ` + tables.Clients + `(id) ON DELETE CASCADE,
			teamspace_id UUID REFERENCES ` + tables.Teamspaces + `(id) ON DELETE SET NULL,
			name TEXT NOT NULL,
			no_of_documents INTEGER NOT NULL DEFAULT 0,
			is_trained BOOLEAN NOT NULL DEFAULT FALSE,
			re_training_required BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE(client_id, name)
		)
	`
	if _, err := pool.Exec(ctx, createFolders); err != nil {
		return err
	}

	createDocuments := `
		CREATE TABLE IF NOT EXISTS ` + tables.Documents + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			client_id UUID NOT NULL REFERENCES ` + tables.Clients + `(id) ON DELETE CASCADE,
			folder_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE SET NULL,
			teamspace_id UUID REFERENCES ` + tables.Teamspaces + `(id) ON DELETE SET NULL,
			name TEXT NOT NULL,
			raw_url TEXT NOT NULL DEFAULT '',
			vector_db_path TEXT,
			parsed_doc_path TEXT,
			version_number INTEGER NOT NULL DEFAULT 1,
			is_trained BOOLEAN NOT NULL DEFAULT FALSE,
			re_training_required BOOLEAN NOT NULL DEFAULT FALSE,
			created_by TEXT NOT NULL,
			updated_by TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ,
			UNIQUE(client_id, folder_id, name)
		)
	`
	if _, err := pool.Exec(ctx, createDocuments); err != nil {
		return err
	}

	createBytes := `
		CREATE TABLE IF NOT EXISTS ` + tables.Bytes + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id TEXT NOT NULL,
			client_id UUID NOT NULL REFERENCES ` + tables.Clients + `(id) ON DELETE CASCADE,
			document_id UUID REFERENCES ` + tables.Documents + `(id) ON DELETE SET NULL,
			email TEXT,
			request_text TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'open',
			no_of_recommendations INTEGER NOT NULL DEFAULT 0,
			is_processed_by_recommendation BOOLEAN NOT NULL DEFAULT FALSE,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			user_feedback TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createBytes); err != nil {
		return err
	}

	createRecommendations := `
		CREATE TABLE IF NOT EXISTS ` + tables.Recommendations + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			byte_id UUID NOT NULL REFERENCES ` + tables.Bytes + `(id) ON DELETE CASCADE,
			document_id UUID NOT NULL REFERENCES ` + tables.Documents + `(id) ON DELETE CASCADE,
			payload JSONB NOT NULL,
			recommendation_action TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createRecommendations); err != nil {
		return err
	}

	createChangeLogs := `
		CREATE TABLE IF NOT EXISTS ` + tables.ChangeLogs + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			document_id UUID NOT NULL REFERENCES ` + tables.Documents + `(id) ON DELETE CASCADE,
			byte_id UUID NOT NULL REFERENCES ` + tables.Bytes + `(id) ON DELETE CASCADE,
			recommendation_id UUID REFERENCES ` + tables.Recommendations + `(id) ON DELETE SET NULL,
			changed_by TEXT NOT NULL,
			section_main_heading_1 TEXT,
			section_main_heading_2 TEXT,
			section_main_heading_3 TEXT,
			section_main_heading_4 TEXT,
			section_content TEXT,
			attribute_id TEXT,
			change_summary TEXT,
			change_request_type TEXT,
			is_trained BOOLEAN NOT NULL DEFAULT FALSE,
			ai_recommendation_status TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createChangeLogs); err != nil {
		return err
	}

	createTasks := `
		CREATE TABLE IF NOT EXISTS ` + tables.Tasks + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			task_id TEXT NOT NULL UNIQUE,
			task_name TEXT NOT NULL,
			task_status TEXT NOT NULL,
			data_id TEXT,
			byte_id UUID REFERENCES ` + tables.Bytes + `(id) ON DELETE SET NULL,
			doc_id UUID REFERENCES ` + tables.Documents + `(id) ON DELETE SET NULL,
			client_id UUID REFERENCES ` + tables.Clients + `(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createTasks); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `teamspaces_client ON ` + tables.Teamspaces + `(client_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_client ON ` + tables.Folders + `(client_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `documents_client ON ` + tables.Documents + `(client_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `documents_folder ON ` + tables.Documents + `(folder_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `bytes_client ON ` + tables.Bytes + `(client_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `bytes_user ON ` + tables.Bytes + `(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `recommendations_byte ON ` + tables.Recommendations + `(byte_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `recommendations_document ON ` + tables.Recommendations + `(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `change_logs_document ON ` + tables.ChangeLogs + `(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `change_logs_byte ON ` + tables.ChangeLogs + `(byte_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `change_logs_recommendation ON ` + tables.ChangeLogs + `(recommendation_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `tasks_status ON ` + tables.Tasks + `(task_status)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Tasks,
		tables.ChangeLogs,
		tables.Recommendations,
		tables.Bytes,
		tables.Documents,
		tables.Folders,
		tables.Teamspaces,
		tables.Clients,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}
