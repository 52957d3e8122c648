package main

import (
	"log"

	"finch/internal/domain/account"
	"finch/internal/domain/item"
	"finch/internal/domain/sync"
	"finch/internal/domain/transaction"
	"finch/internal/domain/user"
	"finch/internal/infrastructure/crypto"
	"finch/internal/infrastructure/postgres"
	"finch/internal/infrastructure/provider"
	httphandlers "finch/internal/interfaces/http"
	"finch/internal/shared/auth"
	"finch/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	UserHandler        *httphandlers.UserHandler
	ItemHandler        *httphandlers.ItemHandler
	LinkHandler        *httphandlers.LinkHandler
	SyncHandler        *httphandlers.SyncHandler
	AccountHandler     *httphandlers.AccountHandler
	TransactionHandler *httphandlers.TransactionHandler

	// Auth
	JWT *auth.JWT

	// Sync service and item repository (for scheduler wiring)
	SyncService *sync.Service
	ItemRepo    *postgres.ItemRepository
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		return nil, err
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	itemRepo := postgres.NewItemRepository(db, encryptor)
	accountRepo := postgres.NewAccountRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	// Provider client
	client := provider.NewClient(cfg.Provider.BaseURL, cfg.Provider.ClientID, cfg.Provider.Secret)

	// Domain services
	userService := user.NewService(userRepo)
	itemService := item.NewService(itemRepo)
	accountService := account.NewService(accountRepo, itemRepo)
	transactionService := transaction.NewService(transactionRepo, accountRepo, itemRepo)
	syncService := sync.NewService(client, itemRepo, accountRepo, transactionRepo)

	// Auth
	jwt := auth.NewJWT(cfg.JWT.Secret)

	// Handlers
	authHandler := httphandlers.NewAuthHandler(userService, jwt)
	userHandler := httphandlers.NewUserHandler(userService)
	itemHandler := httphandlers.NewItemHandler(itemService, syncService)
	linkHandler := httphandlers.NewLinkHandler(client, syncService)
	syncHandler := httphandlers.NewSyncHandler(itemService, syncService)
	accountHandler := httphandlers.NewAccountHandler(accountService)
	transactionHandler := httphandlers.NewTransactionHandler(transactionService)

	return &Dependencies{
		DB:                 db,
		AuthHandler:        authHandler,
		UserHandler:        userHandler,
		ItemHandler:        itemHandler,
		LinkHandler:        linkHandler,
		SyncHandler:        syncHandler,
		AccountHandler:     accountHandler,
		TransactionHandler: transactionHandler,
		JWT:                jwt,
		SyncService:        syncService,
		ItemRepo:           itemRepo,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
