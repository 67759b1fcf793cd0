package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/commercekit/go-storefront-session/anonsession"
	"github.com/commercekit/go-storefront-session/authsession"
	"github.com/commercekit/go-storefront-session/credstore"
	"github.com/commercekit/go-storefront-session/internal/config"
	"github.com/commercekit/go-storefront-session/projectsettings"
	"github.com/commercekit/go-storefront-session/sessionclient"
	"github.com/commercekit/go-storefront-session/tokencache"
	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running storefront session demo: %s\n", err)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	config.Validate(c, logger)

	store, err := credstore.OpenFileStore(c.GetStateFile())
	if err != nil {
		return fmt.Errorf("credstore.OpenFileStore: %w", err)
	}

	userTokens := tokencache.NewUserCache(store, logger)
	anonTokens := tokencache.NewAnonymousCache(store, logger)
	identity := tokencache.NewIdentityRecord(store, logger)

	factory, err := sessionclient.New(c, userTokens, anonTokens, logger)
	if err != nil {
		return fmt.Errorf("sessionclient.New: %w", err)
	}
	anonymous, err := anonsession.NewManager(factory, anonTokens, identity, logger)
	if err != nil {
		return fmt.Errorf("anonsession.NewManager: %w", err)
	}
	auth, err := authsession.NewService(factory, anonymous, userTokens, logger)
	if err != nil {
		return fmt.Errorf("authsession.NewService: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Startup sequence: resume the persisted user session if possible, fall
	// back to an anonymous identity otherwise.
	if customer := auth.RestoreSession(ctx); customer != nil {
		logger.Info().Str("email", customer.Email).Msg("user session restored")
	} else {
		_, anonymousID, err := anonymous.EnsureSession(ctx)
		if err != nil {
			return fmt.Errorf("anonymous.EnsureSession: %w", err)
		}
		logger.Info().Str("anonymousId", anonymousID).Msg("anonymous session ready")
	}

	if settings := projectsettings.NewService(factory, logger).Settings(ctx); settings != nil {
		logger.Info().
			Str("project", settings.Name).
			Strs("languages", settings.Languages).
			Strs("countries", settings.Countries).
			Msg("project settings loaded")
	}

	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
