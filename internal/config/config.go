package config

import (
	"fmt"
	"os"
	"strconv"
)

// KVの保存先
const (
	KVBackendGorm   = "gorm"
	KVBackendMemory = "memory"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	KVBackend string // gorm / memory

	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）

	JWTSecret string // JWT署名シークレット

	InsightAPIURL   string // 商品説明生成APIのURL
	InsightAPIKey   string // 同APIキー
	ContactRelayURL string // お問い合わせ中継先

	FirebaseAPIKey            string
	FirebaseAuthDomain        string
	FirebaseProjectID         string
	FirebaseStorageBucket     string
	FirebaseMessagingSenderID string
	FirebaseAppID             string
	FirebaseMeasurementID     string

	GoEnv string // dev/prod
	FEURL string // フロントURL（CORSで使う）
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port: os.Getenv("PORT"),

		KVBackend: os.Getenv("KV_BACKEND"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		InsightAPIURL:   os.Getenv("INSIGHT_API_URL"),
		InsightAPIKey:   os.Getenv("INSIGHT_API_KEY"),
		ContactRelayURL: os.Getenv("CONTACT_RELAY_URL"),

		FirebaseAPIKey:            os.Getenv("FIREBASE_API_KEY"),
		FirebaseAuthDomain:        os.Getenv("FIREBASE_AUTH_DOMAIN"),
		FirebaseProjectID:         os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseStorageBucket:     os.Getenv("FIREBASE_STORAGE_BUCKET"),
		FirebaseMessagingSenderID: os.Getenv("FIREBASE_MESSAGING_SENDER_ID"),
		FirebaseAppID:             os.Getenv("FIREBASE_APP_ID"),
		FirebaseMeasurementID:     os.Getenv("FIREBASE_MEASUREMENT_ID"),

		GoEnv: os.Getenv("GO_ENV"),
		FEURL: os.Getenv("FE_URL"),
	}

	if cfg.KVBackend == "" {
		cfg.KVBackend = KVBackendGorm
	}
	if cfg.KVBackend != KVBackendGorm && cfg.KVBackend != KVBackendMemory {
		return Config{}, fmt.Errorf("KV_BACKEND must be gorm or memory")
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	// DB設定はgormバックエンドのときだけ必須
	if cfg.KVBackend == KVBackendGorm && os.Getenv("DATABASE_URL") == "" {
		pgPort, err := mustAtoi("POSTGRES_PORT")
		if err != nil {
			return Config{}, err
		}
		cfg.PostgresPort = pgPort

		cfg.PostgresUser = os.Getenv("POSTGRES_USER")
		cfg.PostgresPassword = os.Getenv("POSTGRES_PASSWORD")
		cfg.PostgresDB = os.Getenv("POSTGRES_DB")
		cfg.PostgresHost = os.Getenv("POSTGRES_HOST")

		if cfg.PostgresUser == "" {
			return Config{}, fmt.Errorf("POSTGRES_USER is required")
		}
		if cfg.PostgresPassword == "" {
			return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
		}
		if cfg.PostgresDB == "" {
			return Config{}, fmt.Errorf("POSTGRES_DB is required")
		}
		if cfg.PostgresHost == "" {
			return Config{}, fmt.Errorf("POSTGRES_HOST is required")
		}
	}

	return cfg, nil
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
