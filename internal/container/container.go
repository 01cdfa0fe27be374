package container

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/saulo-duarte/cyberaware-lambda/internal/auth"
	"github.com/saulo-duarte/cyberaware-lambda/internal/certificate"
	"github.com/saulo-duarte/cyberaware-lambda/internal/config"
	"github.com/saulo-duarte/cyberaware-lambda/internal/lock"
	"github.com/saulo-duarte/cyberaware-lambda/internal/module"
	"github.com/saulo-duarte/cyberaware-lambda/internal/notification"
	"github.com/saulo-duarte/cyberaware-lambda/internal/otp"
	"github.com/saulo-duarte/cyberaware-lambda/internal/pdf"
	"github.com/saulo-duarte/cyberaware-lambda/internal/quiz"
	"github.com/saulo-duarte/cyberaware-lambda/internal/ratelimit"
	"github.com/saulo-duarte/cyberaware-lambda/internal/router"
	"github.com/saulo-duarte/cyberaware-lambda/internal/schema"
	"github.com/saulo-duarte/cyberaware-lambda/internal/seed"
	"github.com/saulo-duarte/cyberaware-lambda/internal/user"
	util "github.com/saulo-duarte/cyberaware-lambda/internal/utils"
	"gorm.io/gorm"
)

var (
	sendRule   = ratelimit.Rule{Limit: 3, Window: 10 * time.Minute}
	verifyRule = ratelimit.Rule{Limit: 10, Window: 10 * time.Minute}
)

type Container struct {
	UserContainer        *user.UserContainer
	ModuleContainer      *module.ModuleContainer
	QuizContainer        *quiz.QuizContainer
	CertificateContainer *certificate.CertificateContainer
	OTPService           *otp.Service
	Router               *chi.Mux
}

// Deps are the infrastructure handles Build wires together. Redis is
// optional; without it locks and rate limits only hold inside one process.
type Deps struct {
	DB       *gorm.DB
	Redis    redis.UniversalClient
	Sealer   otp.Sealer
	Sender   notification.Sender
	Settings config.Settings
}

// New loads configuration, connects to the database and Redis, migrates,
// seeds and returns the wired application. Startup failures are fatal.
func New() *Container {
	config.Init()
	auth.Init()
	config.InitCrypto()

	ctx := context.Background()
	if err := util.SetLocation(config.Cfg.Timezone); err != nil {
		config.Logger.WithError(err).Warn("Invalid APP_TIMEZONE, using UTC")
	}

	if err := config.Connect(ctx, config.Cfg.DatabaseDSN); err != nil {
		config.Logger.WithError(err).Fatal("Failed to connect to DB")
	}
	if err := schema.Migrate(config.DB); err != nil {
		config.Logger.WithError(err).Fatal("Failed to migrate schema")
	}
	if _, err := seed.LoadFile(ctx, config.DB, config.Cfg.SeedPath); err != nil {
		config.Logger.WithError(err).Fatal("Failed to seed database")
	}

	c, err := Build(Deps{
		DB:       config.DB,
		Redis:    connectRedis(ctx, config.Cfg),
		Sealer:   config.DefaultCipher(),
		Sender:   notification.NewSender(config.Cfg),
		Settings: config.Cfg,
	})
	if err != nil {
		config.Logger.WithError(err).Fatal("Failed to build container")
	}
	return c
}

func Build(d Deps) (*Container, error) {
	renderer, err := pdf.NewRenderer()
	if err != nil {
		return nil, err
	}
	locker, limits := coordination(d.Redis)

	userRepo := user.NewRepository(d.DB)
	otpService := otp.NewService(otp.NewRepository(d.DB), userRepo, d.Sealer, d.Sender, limits)

	userContainer := user.NewUserContainer(d.DB, userRepo, otpService)
	moduleContainer := module.NewModuleContainer(d.DB)
	certificateContainer := certificate.NewCertificateContainer(d.DB, locker, renderer)
	quizContainer := quiz.NewQuizContainer(d.DB, locker, certificateContainer.Service)

	return &Container{
		UserContainer:        userContainer,
		ModuleContainer:      moduleContainer,
		QuizContainer:        quizContainer,
		CertificateContainer: certificateContainer,
		OTPService:           otpService,
		Router: router.New(router.RouterConfig{
			UserHandler:        userContainer.Handler,
			ModuleHandler:      moduleContainer.Handler,
			QuizHandler:        quizContainer.Handler,
			CertificateHandler: certificateContainer.Handler,
			AllowedOrigins:     d.Settings.CORSOrigins,
			Ping:               pinger(d.DB),
		}),
	}, nil
}

func coordination(rdb redis.UniversalClient) (lock.Locker, otp.Limits) {
	if rdb == nil {
		return lock.NewMemoryLocker(), otp.Limits{
			Send:   ratelimit.NewMemoryLimiter(sendRule),
			Verify: ratelimit.NewMemoryLimiter(verifyRule),
		}
	}
	return lock.NewRedisLocker(rdb, lock.DefaultTTL), otp.Limits{
		Send:   ratelimit.NewRedisLimiter(rdb, "otp-send", sendRule),
		Verify: ratelimit.NewRedisLimiter(rdb, "otp-verify", verifyRule),
	}
}

func connectRedis(ctx context.Context, s config.Settings) redis.UniversalClient {
	if s.RedisAddr == "" {
		config.Logger.Warn("REDIS_ADDR not set; using in-process locks and rate limits")
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: s.RedisAddr, Password: s.RedisPassword})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		config.Logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	config.Logger.Info("Redis connection established")
	return client
}

func pinger(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
