package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mondostudio/mondo/backend/internal/config"
	"github.com/mondostudio/mondo/backend/internal/contact"
	"github.com/mondostudio/mondo/backend/internal/content"
	"github.com/mondostudio/mondo/backend/internal/database"
	"github.com/mondostudio/mondo/backend/internal/language"
	"github.com/mondostudio/mondo/backend/internal/logging"
	"github.com/mondostudio/mondo/backend/internal/server"
	"github.com/mondostudio/mondo/backend/internal/translator"
	"github.com/mondostudio/mondo/backend/internal/uistrings"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile            string
	translateLanguages []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mondo-api",
		Short: "Mondo content API server",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	translateCmd := &cobra.Command{
		Use:   "translate",
		Short: "Fill missing post translations through LibreTranslate",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd.Context())
		},
	}
	translateCmd.Flags().StringSliceVar(&translateLanguages, "languages", []string{"es", "en", "pt", "fr", "ja"}, "Target language codes")
	rootCmd.AddCommand(translateCmd)

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-driver", defaults.GetString("database.driver"), "Database driver (postgres, sqlite)")
	cmd.PersistentFlags().String("database-url", defaults.GetString("database.url"), "Postgres connection URL")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().Int("database-max-open-conns", defaults.GetInt("database.max_open_conns"), "Connection pool ceiling")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("translate-api-url", defaults.GetString("translate.api_url"), "LibreTranslate endpoint")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.driver", "database-driver")
	bindFlag(cmd, "database.url", "database-url")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "database.max_open_conns", "database-max-open-conns")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "translate.api_url", "translate-api-url")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.Open(appConfig, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	contentService, err := content.NewService(content.ServiceConfig{
		Database:     db,
		Clock:        time.Now,
		Logger:       logger,
		QueryTimeout: appConfig.QueryTimeout,
	})
	if err != nil {
		return err
	}

	contactService, err := contact.NewService(contact.ServiceConfig{
		Database: db,
		Clock:    time.Now,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	stringCatalog, err := uistrings.NewCatalog()
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		ContentService: contentService,
		ContactService: contactService,
		Strings:        stringCatalog,
		Database:       db,
		CORSOrigins:    appConfig.CORSOrigins,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func runTranslate(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.Open(appConfig, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	contentService, err := content.NewService(content.ServiceConfig{
		Database:     db,
		Clock:        time.Now,
		Logger:       logger,
		QueryTimeout: appConfig.QueryTimeout,
	})
	if err != nil {
		return err
	}

	targets := make([]language.Code, 0, len(translateLanguages))
	for _, raw := range translateLanguages {
		code, err := language.Normalize(raw)
		if err != nil {
			return err
		}
		if !code.IsZero() {
			targets = append(targets, code)
		}
	}

	fillService, err := translator.NewService(translator.ServiceConfig{
		Store: contentService,
		Client: translator.NewClient(translator.ClientConfig{
			APIURL: appConfig.TranslateAPIURL,
			APIKey: appConfig.TranslateAPIKey,
		}),
		SourceLang: language.English,
		Logger:     logger,
		Pause:      time.Duration(appConfig.TranslatePauseMS) * time.Millisecond,
	})
	if err != nil {
		return err
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := fillService.FillMissing(signalCtx, targets)
	if err != nil {
		return err
	}

	codes := make([]string, 0, len(report.Languages))
	for _, code := range report.Languages {
		codes = append(codes, code.String())
	}
	logger.Info("translation run finished",
		zap.String("run_id", report.RunID),
		zap.String("languages", strings.Join(codes, ",")),
		zap.Int("filled", report.Filled),
		zap.Int("skipped", report.Skipped),
		zap.Int("fallbacks", report.FellBack))
	return nil
}
