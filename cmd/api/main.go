package main

import (
	"net/http"
	"time"

	"freshmart/internal/config"
	"freshmart/internal/domain/model"
	"freshmart/internal/handler"
	"freshmart/internal/infra/db"
	infraRepo "freshmart/internal/infra/repository"
	repo "freshmart/internal/repository"
	"freshmart/internal/server"
	"freshmart/internal/usecase"
	"freshmart/internal/validator"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func newJWTIssuer(secret string) *jwtIssuer {
	//アクセストークン
	return &jwtIssuer{
		secret:    []byte(secret),
		accessTTL: 24 * time.Hour,
	}
}

func (i *jwtIssuer) Issue(identity model.Identity, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":   identity.ID,
		"name":  identity.Name,
		"email": identity.Email,
		"role":  string(identity.Role),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envは無くても起動する
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//KVストア（本番はPostgres、開発・テストはメモリ）
	var kv repo.KV
	if cfg.KVBackend == config.KVBackendMemory {
		kv = infraRepo.NewKVMemoryStore()
	} else {
		gormDB, err := db.Connect()
		if err != nil {
			panic(err)
		}
		if err := gormDB.AutoMigrate(&infraRepo.KVEntry{}); err != nil {
			panic(err)
		}
		kv = infraRepo.NewKVGormStore(gormDB)
	}

	//Repository（KV実装）生成
	cartRepo := infraRepo.NewCartKVRepository(kv)
	orderRepo := infraRepo.NewOrderKVRepository(kv)
	userRepo := infraRepo.NewUserKVRepository(kv)
	auditRepo := infraRepo.NewAuditKVRepository(kv)
	contactRepo := infraRepo.NewContactKVRepository(kv)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}
	issuer := newJWTIssuer(cfg.JWTSecret)
	httpClient := &http.Client{Timeout: 15 * time.Second}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, validator.NewAuthValidator(), issuer, clock, idGen)
	cartUC := usecase.NewCartUsecase(cartRepo)
	orderUC := usecase.NewOrderUsecase(cartRepo, orderRepo, clock, idGen)
	adminUC := usecase.NewAdminOrderUsecase(orderRepo, auditRepo, clock, idGen)
	insightUC := usecase.NewInsightUsecase(httpClient, cfg.InsightAPIURL, cfg.InsightAPIKey)
	contactUC := usecase.NewContactUsecase(contactRepo, validator.NewContactValidator(), httpClient, cfg.ContactRelayURL, clock, idGen)

	//Handler生成
	handlers := server.Handlers{
		Auth:       handler.NewAuthHandler(authUC),
		Cart:       handler.NewCartHandler(cartUC),
		Order:      handler.NewOrderHandler(orderUC),
		AdminOrder: handler.NewAdminOrderHandler(adminUC),
		Insight:    handler.NewInsightHandler(insightUC),
		Contact:    handler.NewContactHandler(contactUC),
		Meta:       handler.NewMetaHandler(cfg),
	}

	//Server起動
	e := server.New(cfg, handlers)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := e.Start(addr); err != nil {
		panic(err)
	}
}
