package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	communicationmod "github.com/klinehq/communication/modules/communication"
	knowledgemod "github.com/klinehq/communication/modules/knowledge"
	"github.com/klinehq/communication/pkg/attachment"
	"github.com/klinehq/communication/pkg/config"
	"github.com/klinehq/communication/pkg/email"
	"github.com/klinehq/communication/pkg/httpserver"
	"github.com/klinehq/communication/pkg/knowledge"
	"github.com/klinehq/communication/pkg/logger"
	"github.com/klinehq/communication/pkg/notification"
	"github.com/klinehq/communication/pkg/pg"
	"github.com/klinehq/communication/pkg/sms"
	"github.com/klinehq/communication/pkg/template"
	"github.com/klinehq/communication/pkg/transaction"
)

type appConfig struct {
	// AttachmentDriver selects where uploaded files live: "local" or "s3".
	AttachmentDriver string `env:"ATTACHMENT_DRIVER" envDefault:"local"`
	AttachmentDir    string `env:"ATTACHMENT_DIR" envDefault:"./data/attachments"`
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		appCfg   appConfig
		logCfg   logger.Config
		pgCfg    pg.Config
		httpCfg  httpserver.Config
		emailCfg email.Config
		smsCfg   sms.Config
	)
	for _, err := range []error{
		config.Load(&appCfg),
		config.Load(&logCfg),
		config.Load(&pgCfg),
		config.Load(&httpCfg),
		config.Load(&emailCfg),
		config.Load(&smsCfg),
	} {
		if err != nil {
			return err
		}
	}

	log := logger.NewFromConfig(logCfg)
	slog.SetDefault(log)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	store, err := newAttachmentStore(ctx, appCfg)
	if err != nil {
		return err
	}

	gateways := map[notification.Channel]notification.TransportGateway{}
	if emailGW, err := email.NewPostmarkGateway(emailCfg); err == nil {
		gateways[notification.ChannelEmail] = emailGW
	} else {
		log.Warn("email gateway disabled", logger.Error(err))
	}
	if smsGW, err := sms.NewHTTPGateway(smsCfg); err == nil {
		gateways[notification.ChannelSMS] = smsGW
	} else {
		log.Warn("sms gateway disabled", logger.Error(err))
	}
	if len(gateways) == 0 {
		return fmt.Errorf("no transport gateway configured")
	}

	recorder := transaction.NewPGRecorder(pool)
	adapter := communicationmod.NewStoreAdapter(store)
	workflow := notification.NewWorkflow(
		recorder,
		notification.NewComposer(adapter),
		gateways,
		notification.WithLogger(log),
		notification.WithAttachmentCleanup(adapter),
	)

	commHandler := communicationmod.NewHandler(
		workflow,
		template.NewPGStorage(pool),
		recorder,
		store,
		communicationmod.WithLogger(log),
	)
	kbHandler := knowledgemod.NewHandler(
		knowledge.NewService(knowledge.NewPGStorage(pool), log),
		knowledgemod.WithLogger(log),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", httpserver.HealthCheckHandler(log))
	r.Get("/readyz", httpserver.HealthCheckHandler(log, pg.Healthcheck(pool)))
	r.Mount("/communication", communicationmod.Router(commHandler))
	r.Mount("/knowledge", knowledgemod.Router(kbHandler))

	return httpserver.New(httpCfg, log).Run(ctx, r)
}

func newAttachmentStore(ctx context.Context, cfg appConfig) (attachment.Store, error) {
	switch cfg.AttachmentDriver {
	case "s3":
		var s3Cfg attachment.S3Config
		if err := config.Load(&s3Cfg); err != nil {
			return nil, err
		}
		return attachment.NewS3Store(ctx, s3Cfg)
	case "local":
		return attachment.NewLocalStore(cfg.AttachmentDir)
	default:
		return nil, fmt.Errorf("unknown attachment driver %q", cfg.AttachmentDriver)
	}
}
