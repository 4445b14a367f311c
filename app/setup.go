package app

import (
	"fmt"
	"os"

	"github.com/sahilchouksey/secure-notes-api/api"
	"github.com/sahilchouksey/secure-notes-api/config"
	"github.com/sahilchouksey/secure-notes-api/database"
	"github.com/sahilchouksey/secure-notes-api/router"
	"github.com/sahilchouksey/secure-notes-api/services/cron"
	"github.com/sahilchouksey/secure-notes-api/services/storage"
	"gorm.io/gorm"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Initialize the storage backend for uploaded documents
	backend, err := buildStorageBackend(getEnv)
	if err != nil {
		return err
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		db, ok := store.GetDB().(*gorm.DB)
		if !ok {
			print("Warning: Failed to get database connection for cron jobs\n")
		} else {
			cronManager = cron.NewCronManager(db, backend)
			if err := cronManager.Start(); err != nil {
				print("Warning: Failed to start cron jobs\n")
				print("Error: ", err.Error(), "\n")
				// Don't fail the app, just log the warning
			}
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes
	router.SetupRoutes(app, store, backend, getEnv)

	// Get the PORT & Start the Server
	return server.Run()
}

// buildStorageBackend picks the configured storage backend. Local disk is
// the default; Spaces requires the full credential set.
func buildStorageBackend(getEnv *config.EnviornmentVariable) (storage.Backend, error) {
	switch getEnv.STORAGE_BACKEND {
	case "spaces":
		if getEnv.SPACES_ACCESS_KEY == "" || getEnv.SPACES_SECRET_KEY == "" || getEnv.SPACES_BUCKET == "" {
			return nil, fmt.Errorf("spaces storage backend requires SPACES_ACCESS_KEY, SPACES_SECRET_KEY, and SPACES_BUCKET")
		}
		return storage.NewSpacesBackend(storage.SpacesConfig{
			AccessKey: getEnv.SPACES_ACCESS_KEY,
			SecretKey: getEnv.SPACES_SECRET_KEY,
			Bucket:    getEnv.SPACES_BUCKET,
			Region:    getEnv.SPACES_REGION,
			Endpoint:  getEnv.SPACES_ENDPOINT,
		})
	default:
		return storage.NewLocalBackend(getEnv.UPLOAD_DIR)
	}
}
