package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/opencircle/core/internal/config"
	"github.com/opencircle/core/internal/database"
	"github.com/opencircle/core/internal/models"
	"github.com/opencircle/core/internal/modules/auth"
	"github.com/opencircle/core/internal/pkg/hashing"
	"go.uber.org/zap"
)

// adminctl bootstraps an administrator account directly in the database.
func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to YAML config file")
	email := flag.String("email", "", "Admin email address")
	password := flag.String("password", "", "Admin password")
	firstName := flag.String("first-name", "", "Admin first name")
	lastName := flag.String("last-name", "", "Admin last name")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if *email == "" || *password == "" || *lastName == "" {
		logger.Fatal("--email, --password and --last-name are required")
	}
	if len(*password) < 6 {
		logger.Fatal("password must be at least 6 characters")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to mongo", zap.Error(err))
	}
	defer db.Disconnect(context.Background())

	hashed, err := hashing.Hash(*password)
	if err != nil {
		logger.Fatal("failed to hash password", zap.Error(err))
	}

	store := auth.NewMongoStore(db)
	u := &models.User{
		Email:     *email,
		Password:  hashed,
		FirstName: *firstName,
		LastName:  *lastName,
		Role:      models.RoleAdmin,
	}
	if err := store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			logger.Fatal("a user with this email already exists", zap.String("email", *email))
		}
		logger.Fatal("failed to create admin user", zap.Error(err))
	}

	logger.Info("admin user created",
		zap.String("id", u.ID.Hex()),
		zap.String("email", u.Email))
}
