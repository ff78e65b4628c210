package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dwoolworth/inkwell"
	"github.com/dwoolworth/inkwell/auth"
	"github.com/dwoolworth/inkwell/content"
	"github.com/dwoolworth/inkwell/mail"
	"github.com/dwoolworth/inkwell/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveEnforce bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveEnforce, "enforce", true, "Create missing indexes before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	if serveEnforce {
		err := a.store.Enforce(ctx, inkwell.EnforceOptions{
			DriftPolicy: inkwell.DriftWarn,
			OnDriftWarning: func(d inkwell.DriftError) {
				a.log.Warn("schema drift", zap.String("collection", d.Collection), zap.String("field", d.Field))
			},
		})
		if err != nil {
			return err
		}
	}

	uploader, err := a.uploader(ctx)
	if err != nil {
		return err
	}

	var mailer *mail.Mailer
	if a.cfg.MailEnabled() {
		sender, err := mail.NewSMTPSender(mail.SMTPConfig{
			Host:     a.cfg.SMTPHost,
			Port:     a.cfg.SMTPPort,
			Username: a.cfg.SMTPEmail,
			Password: a.cfg.SMTPPassword,
		})
		if err != nil {
			return err
		}
		mailer = mail.NewMailer(sender, mail.Options{
			AppName:          a.cfg.AppName,
			BaseURL:          a.cfg.AppBaseURL,
			ContactRecipient: a.cfg.ContactFormRecipient,
		})
	} else {
		a.log.Warn("SMTP configuration missing; mail is disabled")
	}

	users := content.NewUsers(a.store)
	signer := auth.NewSigner(a.cfg.JWTSecret, a.cfg.SessionTTL, a.cfg.TokenTTL)
	var notifier auth.Notifier
	var contact server.ContactService
	if mailer != nil {
		notifier = mailer
		contact = mailer
	}

	if !a.cfg.LogDev {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.New(server.Services{
		Posts:        content.NewPosts(a.store, uploader),
		Publications: content.NewPublications(a.store, uploader),
		Categories:   content.NewCategories(a.store),
		Tags:         content.NewTags(a.store),
		Comments:     content.NewComments(a.store),
		Users:        users,
		Accounts:     auth.NewService(users, notifier, signer, a.log.Named("auth")),
		Sessions:     signer,
		Contact:      contact,
		Health:       a.store,
	}, server.Options{Logger: a.log.Named("http"), Gatherer: a.registry})

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.log.Info("starting server", zap.String("addr", a.cfg.HTTPAddr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
